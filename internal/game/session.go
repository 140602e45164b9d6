// internal/game/session.go
//
// Session owns the live bottles of one level.
// Responsibilities:
//   - Hold bottles in slot order and reuse them when a new level is loaded.
//   - Track the pending source selection (select, reselect to cancel,
//     select another bottle to pour).
//   - Count accepted moves and latch level completion.
//
// Completion is evaluated after accepted transfers only.

package game

import (
	"errors"
	"fmt"
)

// ErrUnknownBottle is returned for a slot outside the session.
var ErrUnknownBottle = errors.New("unknown bottle")

// SelectionKind is the outcome of Session.Select.
type SelectionKind string

const (
	SelectionIgnored    SelectionKind = "ignored"    // bottle cannot be a source
	SelectionSelected   SelectionKind = "selected"   // bottle is now the pending source
	SelectionDeselected SelectionKind = "deselected" // pending source was cleared
	SelectionPoured     SelectionKind = "poured"     // a transfer was attempted
)

// Selection reports what a Select call did. Transfer is set only for
// SelectionPoured, and may be a rejection.
type Selection struct {
	Kind     SelectionKind
	Transfer *TransferResult
	Complete bool
}

// Session is a single level in play. It is not safe for concurrent use;
// callers serialize access per session.
type Session struct {
	bottles  []*Bottle
	pending  int // slot of the selected source, -1 when none
	moves    int
	complete bool
}

// NewSession builds a session from generated layouts.
func NewSession(layouts []Layout) *Session {
	s := &Session{pending: -1}
	s.Load(layouts)
	return s
}

// Load replaces the level in place, reusing existing bottle slots.
func (s *Session) Load(layouts []Layout) {
	for i, l := range layouts {
		if i < len(s.bottles) {
			s.bottles[i].slot = l.Slot
			s.bottles[i].Reset(l.Segments)
			continue
		}
		s.bottles = append(s.bottles, NewBottle(l.Slot, l.Segments))
	}
	s.bottles = s.bottles[:len(layouts)]
	s.pending = -1
	s.moves = 0
	s.complete = s.IsLevelComplete()
}

// Bottles returns the live bottles in slot order. Callers must treat them
// as read-only.
func (s *Session) Bottles() []*Bottle { return s.bottles }

// Bottle returns the bottle at slot.
func (s *Session) Bottle(slot int) (*Bottle, error) {
	if slot < 0 || slot >= len(s.bottles) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBottle, slot)
	}
	return s.bottles[slot], nil
}

// Moves returns the number of accepted transfers.
func (s *Session) Moves() int { return s.moves }

// Complete reports whether the level has been won. Once set it stays set
// until the next Load.
func (s *Session) Complete() bool { return s.complete }

// IsLevelComplete reports whether every bottle is solved or empty.
func (s *Session) IsLevelComplete() bool {
	for _, b := range s.bottles {
		if !b.IsEmptyOrSolved() {
			return false
		}
	}
	return true
}

// Pour attempts a transfer between two slots. Solved bottles are rejected
// as sources, matching Select and LegalMoves.
func (s *Session) Pour(from, to int) (TransferResult, error) {
	src, err := s.Bottle(from)
	if err != nil {
		return TransferResult{}, err
	}
	dst, err := s.Bottle(to)
	if err != nil {
		return TransferResult{}, err
	}
	if src != dst && src.IsSolved() {
		return TransferResult{Reason: ReasonSourceSolved, SourceTop: src.TopIndex(), TargetTop: dst.TopIndex()}, nil
	}
	res := AttemptTransfer(src, dst)
	if res.Accepted {
		s.moves++
		if !s.complete {
			s.complete = s.IsLevelComplete()
		}
	}
	return res, nil
}

// Pending returns the selected source slot, if any.
func (s *Session) Pending() (int, bool) { return s.pending, s.pending >= 0 }

// Deselect clears any pending selection.
func (s *Session) Deselect() { s.pending = -1 }

// Select feeds one bottle pick into the selection state machine.
func (s *Session) Select(slot int) (Selection, error) {
	b, err := s.Bottle(slot)
	if err != nil {
		return Selection{}, err
	}

	switch {
	case s.pending < 0:
		if b.IsEmpty() || b.IsSolved() {
			return Selection{Kind: SelectionIgnored, Complete: s.complete}, nil
		}
		s.pending = slot
		return Selection{Kind: SelectionSelected, Complete: s.complete}, nil

	case s.pending == slot:
		s.pending = -1
		return Selection{Kind: SelectionDeselected, Complete: s.complete}, nil
	}

	from := s.pending
	s.pending = -1
	res, err := s.Pour(from, slot)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Kind: SelectionPoured, Transfer: &res, Complete: s.complete}, nil
}

// LegalMoves lists every pair of slots a pour would currently be accepted
// for. Solved bottles are not offered as sources.
func (s *Session) LegalMoves() []Move {
	var out []Move
	for _, src := range s.bottles {
		if src.IsSolved() {
			continue
		}
		for _, dst := range s.bottles {
			if CheckTransfer(src, dst) == ReasonNone {
				out = append(out, Move{From: src.slot, To: dst.slot})
			}
		}
	}
	return out
}
