// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// This is the live-state layer for levels in play: bottle contents exist
// only here, while results and counters go to SQLite.
//
// Characteristics:
//   - Stores *Game records keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Update serializes every mutation of one game behind that game's mutex,
//     so a bottle is never part of two pours at once.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/liquidsort/apps/go-server/internal/game"
)

// ErrNotFound is returned for unknown game IDs.
var ErrNotFound = errors.New("game not found")

// Game is one level in play plus the metadata needed to record it.
type Game struct {
	ID        string
	Seed      uint64
	Params    game.Params
	Daily     string // date key for daily levels, empty otherwise
	UserID    string // set when an authenticated player owns the game
	AnonID    string // set for guest games
	StartedAt time.Time
	Session   *game.Session

	mu sync.Mutex
}

// Store defines the persistence interface for games in play.
type Store interface {
	// Save persists or replaces a game.
	Save(ctx context.Context, g *Game) error

	// Get retrieves a game by ID. Mutations must go through Update.
	Get(ctx context.Context, id string) (*Game, error)

	// Update runs fn with exclusive access to the game.
	Update(ctx context.Context, id string, fn func(*Game) error) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex     // guards games map
	games map[string]*Game // keyed by Game.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*Game)}
}

func (m *memory) Save(ctx context.Context, g *Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Update(ctx context.Context, id string, fn func(*Game) error) error {
	g, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(g)
}
