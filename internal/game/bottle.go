// internal/game/bottle.go
//
// Bottle is the liquid-stack model.
// Responsibilities:
//   - Hold exactly K segments, bottom (0) to top (K-1).
//   - Answer top-segment and capacity queries.
//   - Provide the two mutation primitives the transfer engine builds on
//     (AssignTopType, ApplyAmountDelta) plus the sticky solved latch.
//
// Notes:
//   - Filled segments always form a contiguous run from index 0. Nothing
//     re-validates this after construction; the primitives preserve it.
//   - Malformed input and misuse of AssignTopType panic: they are caller bugs.

package game

import "fmt"

// Bottle holds a fixed-size stack of liquid segments.
type Bottle struct {
	slot     int
	segments []Segment
	solved   bool
}

// NewBottle builds a bottle at the given placement slot. The segment list
// fixes the bottle's capacity K and must satisfy the stack invariants.
func NewBottle(slot int, segs []Segment) *Bottle {
	b := &Bottle{slot: slot}
	b.Reset(segs)
	return b
}

// Reset replaces the bottle's contents in place, clearing the solved latch,
// so a bottle slot can be reused for a new level.
func (b *Bottle) Reset(segs []Segment) {
	if err := validateSegments(segs); err != nil {
		panic(fmt.Sprintf("game: bottle %d: %v", b.slot, err))
	}
	b.segments = append(b.segments[:0], segs...)
	b.solved = false
	b.MarkSolvedIfComplete()
}

// validateSegments checks range, typing, contiguity and capacity.
func validateSegments(segs []Segment) error {
	if len(segs) == 0 {
		return fmt.Errorf("no segments")
	}
	var sum float64
	seenClear := false
	for i, s := range segs {
		if s.Amount < 0 || s.Amount > 1 {
			return fmt.Errorf("segment %d: amount %v out of range", i, s.Amount)
		}
		if s.Amount == 0 {
			if s.Liquid != nil {
				return fmt.Errorf("segment %d: typed segment with zero amount", i)
			}
			seenClear = true
			continue
		}
		if s.Liquid == nil {
			return fmt.Errorf("segment %d: untyped segment with amount %v", i, s.Amount)
		}
		if s.Amount < clearEpsilon {
			return fmt.Errorf("segment %d: amount %v below resolution", i, s.Amount)
		}
		if seenClear {
			return fmt.Errorf("segment %d: gap below filled segment", i)
		}
		sum += s.Amount
	}
	if sum > 1+clearEpsilon {
		return fmt.Errorf("fill %v exceeds capacity", sum)
	}
	return nil
}

// Slot returns the bottle's placement slot.
func (b *Bottle) Slot() int { return b.slot }

// Capacity returns K, the number of segment slots.
func (b *Bottle) Capacity() int { return len(b.segments) }

// Segments returns a copy of the stack, bottom to top.
func (b *Bottle) Segments() []Segment {
	out := make([]Segment, len(b.segments))
	copy(out, b.segments)
	return out
}

// TopIndex is the highest index holding liquid, or 0 for an empty bottle.
func (b *Bottle) TopIndex() int {
	for i := len(b.segments) - 1; i >= 0; i-- {
		if b.segments[i].Amount > 0 {
			return i
		}
	}
	return 0
}

// TopSegment returns the segment at TopIndex.
func (b *Bottle) TopSegment() Segment { return b.segments[b.TopIndex()] }

// Fill is the occupied fraction of the bottle.
func (b *Bottle) Fill() float64 {
	var sum float64
	for _, s := range b.segments {
		sum += s.Amount
	}
	return sum
}

// AvailableCapacity is the unoccupied fraction of the bottle.
func (b *Bottle) AvailableCapacity() float64 { return 1 - b.Fill() }

// IsEmpty reports whether the bottle holds (effectively) no liquid.
func (b *Bottle) IsEmpty() bool { return nearlyEqual(b.AvailableCapacity(), 1) }

// IsFull reports whether no capacity is left.
func (b *Bottle) IsFull() bool { return b.AvailableCapacity() < clearEpsilon }

// IsSolved reports the sticky single-color latch.
func (b *Bottle) IsSolved() bool { return b.solved }

// IsEmptyOrSolved is the per-bottle win predicate.
func (b *Bottle) IsEmptyOrSolved() bool { return b.solved || b.IsEmpty() }

// AssignTopType seeds the first liquid of an empty bottle.
// Panics when the bottle is not empty.
func (b *Bottle) AssignTopType(t *LiquidType) {
	if !b.IsEmpty() {
		panic(fmt.Sprintf("game: AssignTopType on non-empty bottle %d", b.slot))
	}
	b.segments[0].Liquid = t
}

// ApplyAmountDelta adds delta to the segment at index, never going below
// zero. A segment left with less than clearEpsilon is cleared, exposing the
// segment beneath it as the new top.
func (b *Bottle) ApplyAmountDelta(index int, delta float64) {
	s := &b.segments[index]
	s.Amount += delta
	if s.Amount < 0 {
		s.Amount = 0
	}
	if s.Amount < clearEpsilon {
		s.Liquid = nil
		s.Amount = 0
	}
}

// MarkSolvedIfComplete latches solved once the bottom segment fills the
// bottle. It never unsets the flag.
func (b *Bottle) MarkSolvedIfComplete() {
	if b.solved {
		return
	}
	if b.segments[0].Amount >= solvedThreshold {
		b.solved = true
	}
}
