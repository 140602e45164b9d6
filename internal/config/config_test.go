package config

import (
	"errors"
	"testing"

	"github.com/robalobadob/liquidsort/apps/go-server/internal/game"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != "5175" {
		t.Errorf("Port = %q, want 5175", cfg.Port)
	}
	want := game.Params{Filled: 4, Empty: 2, Segments: 4}
	if got := cfg.DefaultParams(); got != want {
		t.Errorf("DefaultParams() = %+v, want %+v", got, want)
	}
	if cfg.DailyParams().Filled != 7 {
		t.Errorf("DailyFilled = %d, want 7", cfg.DailyFilled)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DEFAULT_FILLED", "6")
	t.Setenv("LOG_PRETTY", "true")
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != "9000" || cfg.DefaultFilled != 6 || !cfg.LogPretty {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestParseRejectsInvalidLevel(t *testing.T) {
	t.Setenv("SEGMENTS", "2")
	if _, err := Parse(); !errors.Is(err, game.ErrInvalidParams) {
		t.Errorf("Parse error = %v, want ErrInvalidParams", err)
	}
}

func TestParseRejectsBadNumber(t *testing.T) {
	t.Setenv("DEFAULT_EMPTY", "lots")
	if _, err := Parse(); err == nil {
		t.Error("expected parse error")
	}
}
