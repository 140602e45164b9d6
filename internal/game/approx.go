package game

import "math"

const (
	// clearEpsilon is the tolerance for "no liquid": segment clearing,
	// empty bottles and full bottles all compare against it.
	clearEpsilon = 0.001

	// solvedThreshold is the bottom segment amount at which a bottle counts
	// as holding a single color.
	solvedThreshold = 0.99
)

func nearlyZero(x float64) bool { return math.Abs(x) < clearEpsilon }

func nearlyEqual(a, b float64) bool { return nearlyZero(a - b) }
