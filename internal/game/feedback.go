// internal/game/feedback.go
//
// Pure feedback helpers: proximity, temperature bands and the text shown for
// each event. Nothing here touches engine state.

package game

import (
	"fmt"
	"math"
)

// Proximity returns closeness in [0,100]; 100 means guess == target.
// Distance is linear in the width of the range.
func Proximity(guess, target, min, max int) float64 {
	width := float64(max - min)
	if width <= 0 {
		if guess == target {
			return 100
		}
		return 0
	}
	p := 100 - 100*math.Abs(float64(guess-target))/width
	return math.Max(0, math.Min(100, p))
}

// TemperatureOf maps a proximity to its band. Lower bounds are inclusive.
func TemperatureOf(p float64) Temperature {
	switch {
	case p >= 95:
		return TempBurning
	case p >= 85:
		return TempVeryHot
	case p >= 70:
		return TempHot
	case p >= 50:
		return TempWarm
	case p >= 30:
		return TempCool
	case p >= 15:
		return TempCold
	default:
		return TempFreezing
	}
}

// Label is the display form of a band.
func (t Temperature) Label() string {
	switch t {
	case TempBurning:
		return "BURNING HOT!"
	case TempVeryHot:
		return "Very Hot!"
	case TempHot:
		return "Hot"
	case TempWarm:
		return "Warm"
	case TempCool:
		return "Cool"
	case TempCold:
		return "Cold"
	case TempFreezing:
		return "FREEZING!"
	}
	return string(t)
}

// String renders the event the way a player reads it.
func (f Feedback) String() string {
	switch f.Outcome {
	case OutcomeWin:
		return fmt.Sprintf("Correct! You found the number in %d attempts!", f.Attempt)
	case OutcomeLoss:
		return fmt.Sprintf("Game Over! You've used all %d attempts. The number was %d.", f.MaxAttempts, f.Target)
	case OutcomeTimeUp:
		return fmt.Sprintf("Time's up! The number was %d.", f.Target)
	}

	dir := "Lower"
	if f.Outcome == OutcomeHigher {
		dir = "Higher"
	}
	s := fmt.Sprintf("%s than %d! %s", dir, f.Guess, f.Temperature.Label())
	switch f.Trend {
	case TrendWarmer:
		s += " (Getting warmer!)"
	case TrendColder:
		s += " (Getting colder!)"
	}
	return s
}

func trendOf(cur, last float64) Trend {
	switch {
	case cur > last:
		return TrendWarmer
	case cur < last:
		return TrendColder
	}
	return TrendNone
}
