package game

import (
	"math"
	"testing"
)

var (
	red    = &LiquidType{Name: "red", Body: "#e53935"}
	blue   = &LiquidType{Name: "blue", Body: "#1e88e5"}
	green  = &LiquidType{Name: "green", Body: "#43a047"}
	yellow = &LiquidType{Name: "yellow", Body: "#fdd835"}
)

func seg(l *LiquidType, amount float64) Segment { return Segment{Liquid: l, Amount: amount} }

// bottle builds a K=4 bottle from the given bottom-up segments.
func bottle(slot int, segs ...Segment) *Bottle {
	full := make([]Segment, DefaultSegments)
	copy(full, segs)
	return NewBottle(slot, full)
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBottleTopIndex(t *testing.T) {
	tests := []struct {
		name string
		b    *Bottle
		want int
	}{
		{"empty", bottle(0), 0},
		{"one segment", bottle(0, seg(red, 0.3)), 0},
		{"three segments", bottle(0, seg(red, 0.3), seg(blue, 0.2), seg(green, 0.1)), 2},
		{"full stack", bottle(0, seg(red, 0.25), seg(blue, 0.25), seg(green, 0.25), seg(red, 0.25)), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.TopIndex(); got != tt.want {
				t.Errorf("TopIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBottleCapacity(t *testing.T) {
	b := bottle(0, seg(red, 0.3), seg(blue, 0.4))
	if !approx(b.Fill(), 0.7) {
		t.Errorf("Fill() = %v, want 0.7", b.Fill())
	}
	if !approx(b.AvailableCapacity(), 0.3) {
		t.Errorf("AvailableCapacity() = %v, want 0.3", b.AvailableCapacity())
	}
	if b.IsEmpty() {
		t.Error("IsEmpty() = true for a bottle holding liquid")
	}
	if b.Capacity() != DefaultSegments {
		t.Errorf("Capacity() = %d, want %d", b.Capacity(), DefaultSegments)
	}
	if top := b.TopSegment(); top.Liquid != blue || !approx(top.Amount, 0.4) {
		t.Errorf("TopSegment() = %+v, want blue 0.4", top)
	}

	empty := bottle(1)
	if !empty.IsEmpty() || !empty.IsEmptyOrSolved() {
		t.Error("empty bottle should be empty and satisfy the win predicate")
	}
}

func TestApplyAmountDeltaClearsBelowEpsilon(t *testing.T) {
	b := bottle(0, seg(red, 0.5), seg(blue, 0.3))

	b.ApplyAmountDelta(1, -0.2995)
	segs := b.Segments()
	if !segs[1].IsClear() {
		t.Fatalf("segment 1 = %+v, want cleared", segs[1])
	}
	if got := b.TopIndex(); got != 0 {
		t.Errorf("TopIndex() after clearing = %d, want 0", got)
	}

	b.ApplyAmountDelta(0, -2)
	if segs := b.Segments(); segs[0].Amount != 0 || segs[0].Liquid != nil {
		t.Errorf("segment 0 = %+v, want clamped and cleared", segs[0])
	}
}

func TestAssignTopTypePanicsOnNonEmpty(t *testing.T) {
	b := bottle(0, seg(red, 0.2))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	b.AssignTopType(blue)
}

func TestAssignTopTypeOnEmpty(t *testing.T) {
	b := bottle(0)
	b.AssignTopType(green)
	if got := b.Segments()[0].Liquid; got != green {
		t.Errorf("segment 0 liquid = %v, want green", got)
	}
}

func TestSolvedOnConstruction(t *testing.T) {
	b := bottle(0, seg(yellow, 0.99))
	if !b.IsSolved() {
		t.Fatal("bottle with 0.99 at index 0 should be solved")
	}
	b.ApplyAmountDelta(0, -0.5)
	b.MarkSolvedIfComplete()
	if !b.IsSolved() {
		t.Error("solved flag must be sticky")
	}
}

func TestResetClearsSolved(t *testing.T) {
	b := bottle(2, seg(red, 1))
	if !b.IsSolved() {
		t.Fatal("expected solved")
	}
	b.Reset([]Segment{seg(blue, 0.5), {}, {}, {}})
	if b.IsSolved() {
		t.Error("Reset should clear the solved flag")
	}
	if b.Slot() != 2 {
		t.Errorf("Slot() = %d, want 2", b.Slot())
	}
}

func TestNewBottleRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		segs []Segment
	}{
		{"no segments", nil},
		{"gap", []Segment{seg(red, 0.2), {}, seg(blue, 0.2), {}}},
		{"typed zero", []Segment{{Liquid: red}, {}, {}, {}}},
		{"untyped amount", []Segment{{Amount: 0.3}, {}, {}, {}}},
		{"negative", []Segment{seg(red, -0.1), {}, {}, {}}},
		{"over capacity", []Segment{seg(red, 0.6), seg(blue, 0.6), {}, {}}},
		{"below resolution", []Segment{seg(red, 0.0001), {}, {}, {}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("NewBottle(%v) did not panic", tt.segs)
				}
			}()
			NewBottle(0, tt.segs)
		})
	}
}

func TestSegmentsReturnsCopy(t *testing.T) {
	b := bottle(0, seg(red, 0.4))
	segs := b.Segments()
	segs[0].Amount = 1
	if approx(b.Fill(), 1) {
		t.Error("mutating Segments() result changed the bottle")
	}
}
