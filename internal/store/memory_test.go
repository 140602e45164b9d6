package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/robalobadob/liquidsort/apps/go-server/internal/game"
)

func newTestGame(id string) *Game {
	red := &game.LiquidType{Name: "red"}
	return &Game{
		ID: id,
		Session: game.NewSession([]game.Layout{
			{Slot: 0, Segments: []game.Segment{{Liquid: red, Amount: 1}, {}, {}, {}}},
			{Slot: 1, Segments: make([]game.Segment, 4)},
		}),
	}
}

func TestMemoryGetMissing(t *testing.T) {
	st := NewMemoryStore()
	if _, err := st.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
	err := st.Update(context.Background(), "nope", func(*Game) error { return nil })
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update error = %v, want ErrNotFound", err)
	}
}

func TestMemoryUpdateSerializesPours(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	if err := st.Save(ctx, newTestGame("g1")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			from, to := i%2, (i+1)%2
			_ = st.Update(ctx, "g1", func(g *Game) error {
				_, err := g.Session.Pour(from, to)
				return err
			})
		}(i)
	}
	wg.Wait()

	g, err := st.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var total float64
	for _, b := range g.Session.Bottles() {
		total += b.Fill()
	}
	if total < 0.999 || total > 1.001 {
		t.Errorf("total volume = %v, want 1", total)
	}
}

func TestMemoryUpdatePropagatesError(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	_ = st.Save(ctx, newTestGame("g1"))
	boom := errors.New("boom")
	if err := st.Update(ctx, "g1", func(*Game) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Update error = %v, want boom", err)
	}
}

func TestMemoryUpdateHonorsCanceledContext(t *testing.T) {
	st := NewMemoryStore()
	_ = st.Save(context.Background(), newTestGame("g1"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := st.Update(ctx, "g1", func(*Game) error { called = true; return nil })
	if !errors.Is(err, context.Canceled) || called {
		t.Errorf("Update = %v (called=%v), want context.Canceled without calling fn", err, called)
	}
}
