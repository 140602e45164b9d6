// internal/httpserver/game_routes.go
//
// Level play over HTTP.
//   - POST /game/new         → generate a level (optional size and seed)
//   - GET  /game/{id}        → current bottles, moves and completion
//   - POST /game/pour        → direct transfer between two bottles
//   - POST /game/select      → click-style selection (select, cancel, pour)
//   - POST /game/deselect    → clear the pending selection
//   - GET  /game/{id}/moves  → every pour that would currently be accepted
//
// Changing a game (pour/select/deselect) is limited to the player who
// started it.
// Rejected pours are a normal outcome (200 with accepted=false and a reason);
// only malformed requests and unknown games/bottles are errors.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/liquidsort/apps/go-server/internal/daily"
	"github.com/robalobadob/liquidsort/apps/go-server/internal/game"
	"github.com/robalobadob/liquidsort/apps/go-server/internal/store"
)

// ------------------------------- views -------------------------------------

type segmentView struct {
	Liquid string  `json:"liquid,omitempty"`
	Amount float64 `json:"amount"`
}

type bottleView struct {
	Slot     int           `json:"slot"`
	Top      int           `json:"top"`
	Fill     float64       `json:"fill"`
	Solved   bool          `json:"solved"`
	Segments []segmentView `json:"segments"`
}

type levelView struct {
	GameID   string       `json:"gameId"`
	Seed     string       `json:"seed"`
	Daily    string       `json:"daily,omitempty"`
	Bottles  []bottleView `json:"bottles"`
	Moves    int          `json:"moves"`
	Complete bool         `json:"complete"`
	Pending  *int         `json:"pending"`
}

type transferView struct {
	Accepted  bool        `json:"accepted"`
	Reason    game.Reason `json:"reason,omitempty"`
	Amount    float64     `json:"amount"`
	SourceTop int         `json:"sourceTop"`
	TargetTop int         `json:"targetTop"`
}

func viewBottle(b *game.Bottle) bottleView {
	segs := b.Segments()
	out := bottleView{Slot: b.Slot(), Top: b.TopIndex(), Fill: b.Fill(), Solved: b.IsSolved(), Segments: make([]segmentView, len(segs))}
	for i, sg := range segs {
		if sg.Liquid != nil {
			out.Segments[i].Liquid = sg.Liquid.Name
		}
		out.Segments[i].Amount = sg.Amount
	}
	return out
}

// viewLevel snapshots g; the caller must hold the game (inside store.Update).
func viewLevel(g *store.Game) levelView {
	sess := g.Session
	v := levelView{
		GameID:   g.ID,
		Seed:     strconv.FormatUint(g.Seed, 10),
		Daily:    g.Daily,
		Moves:    sess.Moves(),
		Complete: sess.Complete(),
	}
	for _, b := range sess.Bottles() {
		v.Bottles = append(v.Bottles, viewBottle(b))
	}
	if p, ok := sess.Pending(); ok {
		v.Pending = &p
	}
	return v
}

func viewTransfer(t game.TransferResult) transferView {
	return transferView{Accepted: t.Accepted, Reason: t.Reason, Amount: t.Amount, SourceTop: t.SourceTop, TargetTop: t.TargetTop}
}

// ------------------------------- routes ------------------------------------

// mountGame registers /game routes on r.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Post("/pour", s.handlePour)
		r.Post("/select", s.handleSelect)
		r.Post("/deselect", s.handleDeselect)
		r.Get("/{id}", s.handleGetGame)
		r.Get("/{id}/moves", s.handleMoves)
	})
}

type newGameReq struct {
	Filled *int   `json:"filled"`
	Empty  *int   `json:"empty"`
	Seed   string `json:"seed"`
}

// handleNewGame generates a level from the request or the configured defaults.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var body newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
			return
		}
	}

	p := s.cfg.DefaultParams()
	if body.Filled != nil {
		p.Filled = *body.Filled
	}
	if body.Empty != nil {
		p.Empty = *body.Empty
	}
	if err := p.Validate(); err != nil {
		http.Error(w, `{"error":"invalid_params"}`, http.StatusBadRequest)
		return
	}
	if p.Filled+p.Empty > s.cfg.MaxBottles {
		http.Error(w, `{"error":"too_many_bottles"}`, http.StatusBadRequest)
		return
	}

	seed := rand.Uint64() &^ (1 << 63)
	if body.Seed != "" {
		v, err := strconv.ParseUint(body.Seed, 10, 63)
		if err != nil {
			http.Error(w, `{"error":"invalid_seed"}`, http.StatusBadRequest)
			return
		}
		seed = v
	}

	userID, anonID := s.owner(w, r)
	g, err := s.startGame(r.Context(), p, seed, "", userID, anonID)
	if err != nil {
		http.Error(w, `{"error":"generation_failed"}`, http.StatusInternalServerError)
		return
	}
	s.writeLevel(w, r, g.ID)
}

// owner identifies who a new game belongs to: the account when signed in,
// otherwise the anonymous cookie.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (userID, anonID string) {
	if u := userFrom(r); u != nil {
		return u.ID, ""
	}
	return "", s.ensureAnonID(w, r)
}

// startGame generates a level, saves it to the store and records the games row.
func (s *Server) startGame(ctx context.Context, p game.Params, seed uint64, dailyDate, userID, anonID string) (*store.Game, error) {
	gen, err := game.NewGenerator(p, s.palette, game.NewRand(seed))
	if err != nil {
		return nil, err
	}
	layouts, err := gen.Generate()
	if err != nil {
		log.Error().Err(err).Uint64("seed", seed).Msg("generate level")
		return nil, err
	}

	g := &store.Game{
		ID:        uuid.NewString(),
		Seed:      seed,
		Params:    p,
		Daily:     dailyDate,
		UserID:    userID,
		AnonID:    anonID,
		StartedAt: s.now(),
		Session:   game.NewSession(layouts),
	}
	if err := s.store.Save(ctx, g); err != nil {
		return nil, err
	}
	s.recordStart(ctx, g)
	log.Info().Str("gameId", g.ID).Uint64("seed", seed).Int("filled", p.Filled).Int("empty", p.Empty).Msg("level started")
	return g, nil
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	s.writeLevel(w, r, chi.URLParam(r, "id"))
}

// writeLevel encodes the current state of game id.
func (s *Server) writeLevel(w http.ResponseWriter, r *http.Request, id string) {
	var v levelView
	err := s.store.Update(r.Context(), id, func(g *store.Game) error {
		v = viewLevel(g)
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

type pourReq struct {
	GameID string `json:"gameId"`
	From   int    `json:"from"`
	To     int    `json:"to"`
}

type pourRes struct {
	Transfer transferView `json:"transfer"`
	Level    levelView    `json:"level"`
}

// handlePour attempts a direct transfer. Any pending selection is left alone.
func (s *Server) handlePour(w http.ResponseWriter, r *http.Request) {
	var body pourReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.GameID == "" {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}

	var res pourRes
	err := s.store.Update(r.Context(), body.GameID, func(g *store.Game) error {
		if !callerOwns(r, g) {
			return errNotOwner
		}
		wasComplete := g.Session.Complete()
		t, err := g.Session.Pour(body.From, body.To)
		if err != nil {
			return err
		}
		if t.Accepted {
			s.afterAccepted(r.Context(), g, wasComplete)
		}
		res = pourRes{Transfer: viewTransfer(t), Level: viewLevel(g)}
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

type selectReq struct {
	GameID string `json:"gameId"`
	Bottle int    `json:"bottle"`
}

type selectRes struct {
	Kind     game.SelectionKind `json:"kind"`
	Transfer *transferView      `json:"transfer,omitempty"`
	Level    levelView          `json:"level"`
}

// handleSelect feeds one bottle pick into the session's selection state.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var body selectReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.GameID == "" {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}

	var res selectRes
	err := s.store.Update(r.Context(), body.GameID, func(g *store.Game) error {
		if !callerOwns(r, g) {
			return errNotOwner
		}
		wasComplete := g.Session.Complete()
		sel, err := g.Session.Select(body.Bottle)
		if err != nil {
			return err
		}
		res.Kind = sel.Kind
		if sel.Transfer != nil {
			tv := viewTransfer(*sel.Transfer)
			res.Transfer = &tv
			if sel.Transfer.Accepted {
				s.afterAccepted(r.Context(), g, wasComplete)
			}
		}
		res.Level = viewLevel(g)
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) handleDeselect(w http.ResponseWriter, r *http.Request) {
	var body struct {
		GameID string `json:"gameId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.GameID == "" {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	var v levelView
	err := s.store.Update(r.Context(), body.GameID, func(g *store.Game) error {
		if !callerOwns(r, g) {
			return errNotOwner
		}
		g.Session.Deselect()
		v = viewLevel(g)
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleMoves(w http.ResponseWriter, r *http.Request) {
	moves := []game.Move{}
	err := s.store.Update(r.Context(), chi.URLParam(r, "id"), func(g *store.Game) error {
		moves = append(moves, g.Session.LegalMoves()...)
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"moves": moves})
}

// errNotOwner is returned when a caller changes a game they did not start.
var errNotOwner = errors.New("game belongs to another player")

// callerOwns reports whether r comes from g's owner: the account it was
// started under, or the anonymous cookie of a guest game (still sent after
// the guest signs in).
func callerOwns(r *http.Request, g *store.Game) bool {
	if u := userFrom(r); u != nil && g.UserID != "" && u.ID == g.UserID {
		return true
	}
	if g.AnonID == "" {
		return false
	}
	c, err := r.Cookie(anonCookieName)
	return err == nil && c.Value == g.AnonID
}

// writeGameError maps store/session errors to status codes.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errNotOwner):
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, `{"error":"game_not_found"}`, http.StatusNotFound)
	case errors.Is(err, game.ErrUnknownBottle):
		http.Error(w, `{"error":"unknown_bottle"}`, http.StatusBadRequest)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, `{"error":"timeout"}`, http.StatusServiceUnavailable)
	default:
		log.Error().Err(err).Msg("game request")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
	}
}

// ---------------------------- persistence ----------------------------------
//
// SQLite bookkeeping is best effort: a failed write is logged and play goes on.

// recordStart inserts the games row and bumps games_played for accounts.
func (s *Server) recordStart(ctx context.Context, g *store.Game) {
	var userID, anonID, dailyDate any
	if g.UserID != "" {
		userID = g.UserID
	}
	if g.AnonID != "" {
		anonID = g.AnonID
	}
	if g.Daily != "" {
		dailyDate = g.Daily
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, user_id, anonymous_id, seed, filled, empty, daily_date, started_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		g.ID, userID, anonID, int64(g.Seed), g.Params.Filled, g.Params.Empty, dailyDate, g.StartedAt.UTC().Format(time.RFC3339),
	); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game")
		return
	}
	if g.UserID != "" {
		if _, err := s.db.ExecContext(ctx, `UPDATE users SET games_played = games_played + 1 WHERE id=?`, g.UserID); err != nil {
			log.Warn().Err(err).Msg("bump games_played")
		}
	}
}

// afterAccepted syncs the move count and, on the pour that completes the
// level, records the win.
func (s *Server) afterAccepted(ctx context.Context, g *store.Game, wasComplete bool) {
	moves := g.Session.Moves()
	if _, err := s.db.ExecContext(ctx, `UPDATE games SET moves=? WHERE id=?`, moves, g.ID); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("update moves")
	}
	if wasComplete || !g.Session.Complete() {
		return
	}

	now := s.now()
	if _, err := s.db.ExecContext(ctx, `UPDATE games SET status='won', finished_at=? WHERE id=?`,
		now.UTC().Format(time.RFC3339), g.ID); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("finish game")
	}
	if g.UserID != "" {
		if _, err := s.db.ExecContext(ctx, `UPDATE users SET wins = wins + 1 WHERE id=?`, g.UserID); err != nil {
			log.Warn().Err(err).Msg("bump wins")
		}
	}
	if g.Daily != "" {
		owner := g.UserID
		if owner == "" {
			owner = g.AnonID
		}
		if err := s.daily.InsertResult(ctx, daily.Result{
			UserID:    owner,
			Date:      g.Daily,
			Seed:      g.Seed,
			Moves:     moves,
			ElapsedMs: int(now.Sub(g.StartedAt).Milliseconds()),
		}); err != nil {
			log.Warn().Err(err).Msg("insert daily result")
		}
	}
	log.Info().Str("gameId", g.ID).Int("moves", moves).Msg("level complete")
}
