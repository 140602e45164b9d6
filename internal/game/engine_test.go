package game

import (
	"reflect"
	"testing"
)

func TestTransferIntoEmptyBottle(t *testing.T) {
	a := bottle(0, seg(red, 0.3))
	b := bottle(1)

	res := AttemptTransfer(a, b)
	if !res.Accepted {
		t.Fatalf("transfer rejected: %s", res.Reason)
	}
	if !approx(res.Amount, 0.3) {
		t.Errorf("Amount = %v, want 0.3", res.Amount)
	}
	bs := b.Segments()
	if bs[0].Liquid != red || !approx(bs[0].Amount, 0.3) {
		t.Errorf("target segment 0 = %+v, want red 0.3", bs[0])
	}
	if !a.Segments()[0].IsClear() {
		t.Errorf("source segment 0 = %+v, want cleared", a.Segments()[0])
	}
	if !a.IsEmpty() {
		t.Error("source should be empty")
	}
	if res.SourceTop != 0 || res.TargetTop != 0 {
		t.Errorf("tops = (%d,%d), want (0,0)", res.SourceTop, res.TargetTop)
	}
}

func TestTransferRejections(t *testing.T) {
	shared := bottle(0, seg(red, 0.5))
	tests := []struct {
		name string
		src  *Bottle
		dst  *Bottle
		want Reason
	}{
		{"same bottle", shared, shared, ReasonSameBottle},
		{"source empty", bottle(0), bottle(1, seg(red, 0.2)), ReasonSourceEmpty},
		{
			"color mismatch",
			bottle(0, seg(green, 0.2), seg(blue, 0.4)),
			bottle(1, seg(green, 0.5), seg(red, 0.2)),
			ReasonColorMismatch,
		},
		{
			"target full of same color",
			bottle(0, seg(green, 0.5)),
			bottle(1, seg(red, 0.9), seg(green, 0.1)),
			ReasonTargetFull,
		},
		{
			"full and mismatched reports mismatch",
			bottle(0, seg(blue, 0.5)),
			bottle(1, seg(red, 0.9), seg(green, 0.1)),
			ReasonColorMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srcBefore, dstBefore := tt.src.Segments(), tt.dst.Segments()
			for i := 0; i < 2; i++ {
				res := AttemptTransfer(tt.src, tt.dst)
				if res.Accepted {
					t.Fatalf("attempt %d accepted, want %s", i, tt.want)
				}
				if res.Reason != tt.want {
					t.Fatalf("attempt %d reason = %q, want %q", i, res.Reason, tt.want)
				}
				if got := CheckTransfer(tt.src, tt.dst); got != tt.want {
					t.Fatalf("CheckTransfer = %q, want %q", got, tt.want)
				}
			}
			if !reflect.DeepEqual(tt.src.Segments(), srcBefore) || !reflect.DeepEqual(tt.dst.Segments(), dstBefore) {
				t.Error("rejected transfer mutated a bottle")
			}
		})
	}
}

func TestTransferPartial(t *testing.T) {
	a := bottle(0, seg(blue, 0.3), seg(green, 0.5))
	b := bottle(1, seg(red, 0.6), seg(green, 0.1))

	res := AttemptTransfer(a, b)
	if !res.Accepted {
		t.Fatalf("transfer rejected: %s", res.Reason)
	}
	if !approx(res.Amount, 0.3) {
		t.Errorf("Amount = %v, want 0.3", res.Amount)
	}
	if got := a.Segments()[1].Amount; !approx(got, 0.2) {
		t.Errorf("source top amount = %v, want 0.2", got)
	}
	if got := b.Segments()[1].Amount; !approx(got, 0.4) {
		t.Errorf("target top amount = %v, want 0.4", got)
	}
	if a.IsSolved() || b.IsSolved() {
		t.Error("neither bottle should be solved")
	}
	if res.SourceTop != 1 || res.TargetTop != 1 {
		t.Errorf("tops = (%d,%d), want (1,1)", res.SourceTop, res.TargetTop)
	}
}

func TestTransferExposesLowerSegment(t *testing.T) {
	a := bottle(0, seg(red, 0.4), seg(blue, 0.2))
	b := bottle(1, seg(blue, 0.3))

	res := AttemptTransfer(a, b)
	if !res.Accepted || res.SourceTop != 0 {
		t.Fatalf("result = %+v, want accepted with source top 0", res)
	}
	if top := a.TopSegment(); top.Liquid != red {
		t.Errorf("new source top = %+v, want red", top)
	}
}

func TestTransferConservesVolume(t *testing.T) {
	bottles := []*Bottle{
		bottle(0, seg(red, 0.3), seg(blue, 0.4), seg(red, 0.3)),
		bottle(1, seg(blue, 0.2), seg(red, 0.2)),
		bottle(2, seg(blue, 0.4), seg(red, 0.2)),
		bottle(3),
	}
	total := func() float64 {
		var sum float64
		for _, b := range bottles {
			sum += b.Fill()
		}
		return sum
	}
	before := total()

	pairs := [][2]int{{0, 3}, {1, 3}, {2, 3}, {0, 1}, {2, 0}, {1, 2}, {3, 0}}
	for _, p := range pairs {
		src, dst := bottles[p[0]], bottles[p[1]]
		srcFill, dstFill := src.Fill(), dst.Fill()
		res := AttemptTransfer(src, dst)
		if !res.Accepted {
			continue
		}
		if !approx(srcFill-src.Fill(), res.Amount) || !approx(dst.Fill()-dstFill, res.Amount) {
			t.Errorf("pour %v moved %v but fills changed by %v/%v",
				p, res.Amount, srcFill-src.Fill(), dst.Fill()-dstFill)
		}
		for _, b := range []*Bottle{src, dst} {
			if b.Fill() > 1+clearEpsilon {
				t.Errorf("bottle %d over capacity: %v", b.Slot(), b.Fill())
			}
			assertContiguous(t, b)
		}
	}
	if after := total(); !approx(before, after) {
		t.Errorf("total volume %v -> %v", before, after)
	}
}

func TestTransferSolvesTarget(t *testing.T) {
	a := bottle(0, seg(blue, 0.2), seg(red, 0.5))
	b := bottle(1, seg(red, 0.5))

	res := AttemptTransfer(a, b)
	if !res.Accepted {
		t.Fatalf("transfer rejected: %s", res.Reason)
	}
	if !b.IsSolved() {
		t.Error("target filled with one color should be solved")
	}
	if a.IsSolved() {
		t.Error("source should not be solved")
	}
}

// assertContiguous checks that filled segments form a run from index 0 and
// that clear segments carry no liquid type.
func assertContiguous(t *testing.T, b *Bottle) {
	t.Helper()
	seenClear := false
	for i, s := range b.Segments() {
		if s.Amount == 0 {
			if s.Liquid != nil {
				t.Errorf("bottle %d segment %d typed but empty", b.Slot(), i)
			}
			seenClear = true
			continue
		}
		if seenClear {
			t.Errorf("bottle %d has a gap below segment %d", b.Slot(), i)
		}
	}
}
