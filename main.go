package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/liquidsort/apps/go-server/assets"
	"github.com/robalobadob/liquidsort/apps/go-server/internal/config"
	"github.com/robalobadob/liquidsort/apps/go-server/internal/daily"
	"github.com/robalobadob/liquidsort/apps/go-server/internal/db"
	"github.com/robalobadob/liquidsort/apps/go-server/internal/game"
	"github.com/robalobadob/liquidsort/apps/go-server/internal/httpserver"
	"github.com/robalobadob/liquidsort/apps/go-server/internal/palette"
	"github.com/robalobadob/liquidsort/apps/go-server/internal/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "liquidsort",
		Short:        "Liquid sort puzzle server and level tools",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(dailyCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads config, configures logging and the palette.
func setup() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	if err := palette.Init(cfg.PaletteFile); err != nil {
		return cfg, fmt.Errorf("loading palette: %w", err)
	}
	return cfg, nil
}

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP game server",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			sqlDB, err := db.OpenAndMigrate(cfg.DBPath, assets.Migrations())
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer sqlDB.Close()

			srv := httpserver.New(store.NewMemoryStore(), sqlDB, cfg, palette.All())
			log.Info().Str("port", cfg.Port).Int("liquids", palette.Stats()).Msg("starting go-server")
			return srv.Start(":" + cfg.Port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP port (overrides PORT)")
	return cmd
}

func generateCmd() *cobra.Command {
	var (
		filled, empty, segments int
		seed                    uint64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a level and print its bottles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			p := cfg.DefaultParams()
			if cmd.Flags().Changed("filled") {
				p.Filled = filled
			}
			if cmd.Flags().Changed("empty") {
				p.Empty = empty
			}
			if cmd.Flags().Changed("segments") {
				p.Segments = segments
			}

			gen, err := game.NewGenerator(p, palette.All(), game.NewRand(seed))
			if err != nil {
				return err
			}
			layouts, err := gen.Generate()
			if err != nil {
				return err
			}
			fmt.Printf("seed %d, %d filled + %d empty, K=%d\n", seed, p.Filled, p.Empty, p.Segments)
			printLayouts(os.Stdout, layouts)
			return nil
		},
	}

	cmd.Flags().IntVar(&filled, "filled", 0, "filled bottles (default DEFAULT_FILLED)")
	cmd.Flags().IntVar(&empty, "empty", 0, "empty bottles (default DEFAULT_EMPTY)")
	cmd.Flags().IntVar(&segments, "segments", 0, "segment slots per bottle (default SEGMENTS)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	return cmd
}

func dailyCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Print the daily seed and level for a date",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			if date == "" {
				date = daily.DateKey(time.Now())
			} else if _, err := time.Parse("2006-01-02", date); err != nil {
				return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
			}

			seed := daily.Seed(date, cfg.DailySalt)
			gen, err := game.NewGenerator(cfg.DailyParams(), palette.All(), game.NewRand(seed))
			if err != nil {
				return err
			}
			layouts, err := gen.Generate()
			if err != nil {
				return err
			}
			fmt.Printf("daily %s seed %d\n", date, seed)
			printLayouts(os.Stdout, layouts)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date key YYYY-MM-DD (default today, UTC)")
	return cmd
}
