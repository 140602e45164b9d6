// internal/httpserver/routes_daily.go
//
// HTTP routes for the level of the day.
//   - POST /daily/new         → start (or resume) today's level
//   - GET  /daily/leaderboard → top 20 results for today (or ?date=YYYY-MM-DD)
//
// Everyone gets the same bottles on a given UTC date: the seed is derived
// from the date and DAILY_SALT. Pours go through the regular /game routes;
// the result is persisted when the level completes. One result per player
// per day (enforced by DB + in-memory session map).

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/liquidsort/apps/go-server/internal/daily"
	"github.com/robalobadob/liquidsort/apps/go-server/internal/store"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	sessions map[string]string // game IDs keyed by playerID|date
	mu       sync.Mutex        // guards sessions
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{srv: s, sessions: make(map[string]string)}
	s.dailyAPI = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// newRes is returned by /daily/new when the player has already finished
// today's level.
type newRes struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// handleNew creates or resumes today's level.
//   - A persisted result for today → played=true, no level.
//   - A live session for today → that level.
//   - Otherwise a fresh level from the date seed.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	s := d.srv
	userID, anonID := s.owner(w, r)
	uid := userID
	if uid == "" {
		uid = anonID
	}
	date := daily.DateKey(s.now())

	if played, err := s.daily.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(newRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneLocked(date)

	if id, ok := d.sessions[key]; ok {
		if _, err := s.store.Get(r.Context(), id); err == nil {
			s.writeLevel(w, r, id)
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			writeGameError(w, err)
			return
		}
		delete(d.sessions, key)
	}

	g, err := s.startGame(r.Context(), s.cfg.DailyParams(), daily.Seed(date, s.cfg.DailySalt), date, userID, anonID)
	if err != nil {
		http.Error(w, `{"error":"generation_failed"}`, http.StatusInternalServerError)
		return
	}
	d.sessions[key] = g.ID
	s.writeLevel(w, r, g.ID)
}

// pruneLocked drops session keys from earlier days. Caller holds d.mu.
func (d *dailyServer) pruneLocked(today string) {
	for key := range d.sessions {
		if !strings.HasSuffix(key, "|"+today) {
			delete(d.sessions, key)
		}
	}
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	}
	rows, err := d.srv.daily.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
