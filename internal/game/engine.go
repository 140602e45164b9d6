// internal/game/engine.go
//
// Transfer engine: validates and applies a single pour between two bottles.
//
// Validation order (each a distinct Reason):
//   1. same bottle
//   2. source empty
//   3. target top color differs from source top color
//   4. target full
//
// Color is checked before capacity so a full bottle of the right color
// reports target_full, never color_mismatch.
//
// The engine is a pure state transition. It returns the moved amount and the
// new top indices; timing and animation belong to the caller.

package game

import "math"

// CheckTransfer reports why pouring src into dst would be rejected, or
// ReasonNone if it would be accepted. It never mutates either bottle.
func CheckTransfer(src, dst *Bottle) Reason {
	if src == dst {
		return ReasonSameBottle
	}
	if src.IsEmpty() {
		return ReasonSourceEmpty
	}
	from := src.TopSegment().Liquid
	to := dst.TopSegment()
	if to.Liquid != nil && !sameLiquid(to.Liquid, from) {
		return ReasonColorMismatch
	}
	if dst.IsFull() {
		return ReasonTargetFull
	}
	return ReasonNone
}

// AttemptTransfer pours as much of src's top segment into dst as fits.
// A rejected transfer leaves both bottles untouched.
func AttemptTransfer(src, dst *Bottle) TransferResult {
	if reason := CheckTransfer(src, dst); reason != ReasonNone {
		return TransferResult{
			Reason:    reason,
			SourceTop: src.TopIndex(),
			TargetTop: dst.TopIndex(),
		}
	}

	top := src.TopSegment()
	amount := math.Min(dst.AvailableCapacity(), top.Amount)

	if dst.IsEmpty() {
		dst.AssignTopType(top.Liquid)
	}
	dst.ApplyAmountDelta(dst.TopIndex(), amount)
	src.ApplyAmountDelta(src.TopIndex(), -amount)

	dst.MarkSolvedIfComplete()
	src.MarkSolvedIfComplete()

	return TransferResult{
		Accepted:  true,
		Amount:    amount,
		SourceTop: src.TopIndex(),
		TargetTop: dst.TopIndex(),
	}
}
