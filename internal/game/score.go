package game

import "math"

// Score computes the points for a win.
//
//	base = 1000 - 500*attempts/maxAttempts - 100*hintsUsed - min(200, elapsed/2)
//
// multiplied by the difficulty multiplier, floored at zero and truncated.
// Unknown difficulties score with multiplier 1.
func Score(attempts, hintsUsed int, d Difficulty, elapsedSeconds float64, maxAttempts int) int {
	mult := 1
	if l, ok := difficultyTable[d]; ok {
		mult = l.Multiplier
	}
	ratio := 0.0
	if maxAttempts > 0 {
		ratio = float64(attempts) / float64(maxAttempts)
	}
	base := 1000 - 500*ratio - 100*float64(hintsUsed) - math.Min(200, elapsedSeconds/2)
	base *= float64(mult)
	if base < 0 {
		return 0
	}
	return int(base)
}
