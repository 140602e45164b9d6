// internal/game/generator.go
//
// Level generator: turns a palette and a random stream into starting bottles.
//
// Algorithm:
//   1. Select one full-bottle supply per filled bottle, cycling the palette in
//      order first and repeating random palette entries after that.
//   2. For every filled bottle but the last, draw supplies at random from a
//      per-bottle pool (each supply once until the pool runs dry, then the pool
//      refills from the supplies that still hold liquid) and cut 0.2–0.5 from
//      each, clamped to the supply and to the bottle's free space, until the
//      bottle is full or has K segments.
//   3. The last filled bottle takes every remaining supply in shuffled order.
//   4. Empty bottles follow.
//
// Volumes are counted in tenths of a bottle so the total is conserved
// exactly. A distribution that leaves the last bottle over capacity or over K
// segments is re-rolled from the same random stream; the result is still
// reproducible for a given seed. Solvability is not checked.

package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

const (
	unitsPerBottle = 10 // volume resolution: one unit is 0.1 of a bottle
	minCutUnits    = 2
	maxCutUnits    = 5
	maxAttempts    = 256

	// minSegments is the smallest K a non-last bottle can be filled with
	// reliably. With two slots a bottle fills only when both cuts are 0.5.
	minSegments = 3
)

var (
	// ErrInvalidParams is returned for generator parameters that cannot
	// describe a level.
	ErrInvalidParams = errors.New("invalid level parameters")

	// ErrGenerationExhausted is returned when no valid distribution was found
	// within the attempt budget.
	ErrGenerationExhausted = errors.New("level generation exhausted attempts")
)

// Rand is the randomness the generator needs. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a deterministic random stream for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Params sizes a level.
type Params struct {
	Filled   int `json:"filled"`   // bottles that start with liquid
	Empty    int `json:"empty"`    // bottles that start empty
	Segments int `json:"segments"` // K, segment slots per bottle
}

// DefaultSegments is the usual number of segment slots per bottle.
const DefaultSegments = 4

// Validate checks that p can describe a level.
func (p Params) Validate() error {
	switch {
	case p.Filled < 1:
		return fmt.Errorf("%w: need at least one filled bottle, got %d", ErrInvalidParams, p.Filled)
	case p.Empty < 0:
		return fmt.Errorf("%w: negative empty bottle count %d", ErrInvalidParams, p.Empty)
	case p.Segments < minSegments:
		return fmt.Errorf("%w: need at least %d segments per bottle, got %d", ErrInvalidParams, minSegments, p.Segments)
	}
	return nil
}

// Generator builds levels from a palette.
type Generator struct {
	params  Params
	palette []*LiquidType
	rng     Rand
}

// NewGenerator validates its inputs and returns a generator.
func NewGenerator(p Params, palette []*LiquidType, rng Rand) (*Generator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(palette) == 0 {
		return nil, fmt.Errorf("%w: empty palette", ErrInvalidParams)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidParams)
	}
	return &Generator{params: p, palette: palette, rng: rng}, nil
}

// supply is a generator-internal container of one liquid, in units.
type supply struct {
	liquid *LiquidType
	units  int
}

// cut is one segment in units, before conversion to a Segment.
type cut struct {
	liquid *LiquidType
	units  int
}

// Generate produces the starting layout of every bottle, filled bottles first.
func (g *Generator) Generate() ([]Layout, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if layouts, ok := g.attempt(); ok {
			return layouts, nil
		}
	}
	return nil, fmt.Errorf("%w: %d attempts for %+v", ErrGenerationExhausted, maxAttempts, g.params)
}

func (g *Generator) attempt() ([]Layout, bool) {
	k := g.params.Segments
	remaining := g.selectLiquids()
	layouts := make([]Layout, 0, g.params.Filled+g.params.Empty)

	for i := 0; i < g.params.Filled; i++ {
		var cuts []cut
		if i == g.params.Filled-1 {
			shuffle(g.rng, remaining)
			if len(remaining) > k {
				return nil, false
			}
			total := 0
			for _, s := range remaining {
				cuts = append(cuts, cut{liquid: s.liquid, units: s.units})
				total += s.units
			}
			if total > unitsPerBottle {
				return nil, false
			}
		} else {
			cuts, remaining = g.distribute(remaining)
		}
		layouts = append(layouts, Layout{Slot: i, Segments: toSegments(cuts, k)})
	}

	for i := 0; i < g.params.Empty; i++ {
		layouts = append(layouts, Layout{Slot: g.params.Filled + i, Segments: toSegments(nil, k)})
	}
	return layouts, true
}

// selectLiquids returns one full supply per filled bottle.
func (g *Generator) selectLiquids() []*supply {
	out := make([]*supply, 0, g.params.Filled)
	for i := 0; i < g.params.Filled; i++ {
		var t *LiquidType
		if i < len(g.palette) {
			t = g.palette[i]
		} else {
			t = g.palette[g.rng.IntN(len(g.palette))]
		}
		out = append(out, &supply{liquid: t, units: unitsPerBottle})
	}
	return out
}

// distribute fills one bottle from the remaining supplies and returns its
// cuts together with the supplies that still hold liquid.
func (g *Generator) distribute(remaining []*supply) ([]cut, []*supply) {
	k := g.params.Segments
	pool := append([]*supply(nil), remaining...)
	space := unitsPerBottle
	var cuts []cut

	for space > 0 && len(cuts) < k {
		if len(pool) == 0 {
			if len(remaining) == 0 {
				break
			}
			pool = append(pool, remaining...)
		}

		idx := g.rng.IntN(len(pool))
		src := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)

		n := minCutUnits + g.rng.IntN(maxCutUnits-minCutUnits+1)
		n = min(n, src.units, space)

		src.units -= n
		space -= n
		cuts = append(cuts, cut{liquid: src.liquid, units: n})

		if src.units == 0 {
			remaining = removeSupply(remaining, src)
		}
	}
	return cuts, remaining
}

func removeSupply(list []*supply, s *supply) []*supply {
	for i, x := range list {
		if x == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// toSegments converts cuts to a K-length segment list padded with clear
// segments.
func toSegments(cuts []cut, k int) []Segment {
	segs := make([]Segment, k)
	for i, c := range cuts {
		segs[i] = Segment{Liquid: c.liquid, Amount: float64(c.units) / unitsPerBottle}
	}
	return segs
}

// shuffle is an in-place Fisher–Yates shuffle.
func shuffle[T any](rng Rand, list []T) {
	for i := len(list) - 1; i > 0; i-- {
		k := rng.IntN(i + 1)
		list[i], list[k] = list[k], list[i]
	}
}
