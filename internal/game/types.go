// internal/game/types.go
//
// Core type definitions for the liquid sort engine.
// Defines:
//   - LiquidType: identity + inert display colors of one liquid.
//   - Segment: one stacked band of liquid inside a bottle.
//   - Reason: why a transfer was rejected.
//   - TransferResult: what an accepted (or rejected) pour changed.
//   - Layout: a bottle's starting state produced by the generator.

package game

// LiquidType identifies one kind of liquid. Two liquids are the same kind
// when their names match; colors are carried only for the presentation layer.
type LiquidType struct {
	Name    string `json:"name"`    // Unique identifier within a palette.
	Body    string `json:"body"`    // Main liquid color (#rrggbb).
	Surface string `json:"surface"` // Top surface color (#rrggbb).
	Fresnel string `json:"fresnel"` // Rim highlight color (#rrggbb).
}

// Segment is one band of a bottle's stack.
// A zero Amount always pairs with a nil Liquid (a "clear" segment).
type Segment struct {
	Liquid *LiquidType // nil when the segment is clear
	Amount float64     // fraction of the bottle's total capacity, 0..1
}

// IsClear reports whether the segment holds no liquid.
func (s Segment) IsClear() bool { return s.Liquid == nil && s.Amount == 0 }

// Reason explains a rejected transfer. The empty Reason means accepted.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonSameBottle    Reason = "same_bottle"
	ReasonSourceEmpty   Reason = "source_empty"
	ReasonColorMismatch Reason = "color_mismatch"
	ReasonTargetFull    Reason = "target_full"

	// ReasonSourceSolved is reported by Session only: a solved bottle is
	// out of play and cannot be poured from.
	ReasonSourceSolved Reason = "source_solved"
)

// TransferResult describes the outcome of AttemptTransfer.
// On acceptance Amount is the volume moved and the top indices are the
// bottles' new top segments, for callers that animate the pour.
type TransferResult struct {
	Accepted  bool
	Reason    Reason
	Amount    float64
	SourceTop int
	TargetTop int
}

// Layout is the starting state of one bottle.
type Layout struct {
	Slot     int       // placement slot, 0-based, filled bottles first
	Segments []Segment // exactly K entries, bottom to top
}

// Move names a (from, to) pair of bottle slots.
type Move struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// sameLiquid compares two liquid types by identity.
func sameLiquid(a, b *LiquidType) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a == b || a.Name == b.Name
}
