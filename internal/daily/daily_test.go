package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/liquidsort/apps/go-server/assets"
	"github.com/robalobadob/liquidsort/apps/go-server/internal/db"
)

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	got := DateKey(time.Date(2026, 3, 2, 5, 0, 0, 0, loc))
	if got != "2026-03-01" {
		t.Errorf("DateKey = %q, want %q", got, "2026-03-01")
	}
}

func TestSeedIsStablePerDateAndSalt(t *testing.T) {
	a := Seed("2026-10-15", "salt")
	if a != Seed("2026-10-15", "salt") {
		t.Error("same date and salt gave different seeds")
	}
	if a == Seed("2026-10-16", "salt") {
		t.Error("different dates gave the same seed")
	}
	if a == Seed("2026-10-15", "pepper") {
		t.Error("different salts gave the same seed")
	}
	if a>>63 != 0 {
		t.Errorf("seed %d has the high bit set", a)
	}
}

func TestStoreResultsAndLeaderboard(t *testing.T) {
	sqlDB, err := db.OpenAndMigrate(filepath.Join(t.TempDir(), "daily.db"), assets.Migrations())
	if err != nil {
		t.Fatalf("OpenAndMigrate: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	s := NewStore(sqlDB)
	date := "2026-10-15"
	seed := Seed(date, "salt")

	results := []Result{
		{UserID: "slow", Date: date, Seed: seed, Moves: 12, ElapsedMs: 90000},
		{UserID: "fast", Date: date, Seed: seed, Moves: 12, ElapsedMs: 30000},
		{UserID: "few", Date: date, Seed: seed, Moves: 9, ElapsedMs: 120000},
		{UserID: "few", Date: date, Seed: seed, Moves: 1, ElapsedMs: 1},
	}
	for _, r := range results {
		if err := s.InsertResult(ctx, r); err != nil {
			t.Fatalf("InsertResult: %v", err)
		}
	}

	played, err := s.AlreadyPlayed(ctx, "fast", date)
	if err != nil || !played {
		t.Errorf("AlreadyPlayed(fast) = %v, %v; want true", played, err)
	}
	played, err = s.AlreadyPlayed(ctx, "nobody", date)
	if err != nil || played {
		t.Errorf("AlreadyPlayed(nobody) = %v, %v; want false", played, err)
	}

	rows, err := s.Leaderboard(ctx, date, 0)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	want := []LBRow{
		{UserID: "few", Moves: 9, ElapsedMs: 120000},
		{UserID: "fast", Moves: 12, ElapsedMs: 30000},
		{UserID: "slow", Moves: 12, ElapsedMs: 90000},
	}
	if len(rows) != len(want) {
		t.Fatalf("leaderboard = %+v, want %+v", rows, want)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}
