// internal/game/hints.go
//
// Hint selection.
//   - Six fact categories are computed against the current target.
//   - Each category is given at most once per session (tracked by tag).
//   - Once all six are spent, an interval around the target is given instead.

package game

import (
	"fmt"
	"strconv"
)

// HintKind tags the fact a hint reveals.
type HintKind string

const (
	HintParity     HintKind = "parity"
	HintFives      HintKind = "divisible_by_5"
	HintMidpoint   HintKind = "midpoint"
	HintDigitSum   HintKind = "digit_sum"
	HintFirstDigit HintKind = "first_digit"
	HintLastDigit  HintKind = "last_digit"
	HintInterval   HintKind = "interval"
)

// hintKinds is the candidate order; selection among the unused ones is uniform.
var hintKinds = []HintKind{
	HintParity,
	HintFives,
	HintMidpoint,
	HintDigitSum,
	HintFirstDigit,
	HintLastDigit,
}

// Hint is a revealed fact about the target.
type Hint struct {
	Kind HintKind `json:"kind"`
	Text string   `json:"text"`
}

// RequestHint spends one hint. It returns ErrNoHints without touching the
// session once the budget is used up.
func (e *Engine) RequestHint() (Hint, error) {
	s := e.sess
	if s == nil {
		return Hint{}, ErrNoGame
	}
	if s.HintsUsed >= s.AvailableHints {
		return Hint{}, ErrNoHints
	}
	s.HintsUsed++

	open := make([]HintKind, 0, len(hintKinds))
	for _, k := range hintKinds {
		if !s.usedHints[k] {
			open = append(open, k)
		}
	}

	var h Hint
	if len(open) > 0 {
		k := open[e.between(0, len(open)-1)]
		s.usedHints[k] = true
		h = Hint{Kind: k, Text: describeHint(k, s)}
	} else {
		lo := max(s.Min, s.Target-e.between(1, 10))
		hi := min(s.Max, s.Target+e.between(1, 10))
		h = Hint{Kind: HintInterval, Text: fmt.Sprintf("The number is between %d and %d.", lo, hi)}
	}

	rec := h
	s.History = append(s.History, Entry{Kind: EntryHint, Text: "Hint: " + h.Text, Hint: &rec})
	return h, nil
}

// describeHint renders category k for the session's current target.
func describeHint(k HintKind, s *Session) string {
	t := s.Target
	digits := strconv.Itoa(abs(t))
	switch k {
	case HintParity:
		if t%2 == 0 {
			return "The number is even."
		}
		return "The number is odd."
	case HintFives:
		if t%5 == 0 {
			return "The number is divisible by 5."
		}
		return "The number is not divisible by 5."
	case HintMidpoint:
		mid := s.Min + (s.Max-s.Min)/2
		if t > mid {
			return fmt.Sprintf("The number is greater than %d.", mid)
		}
		return fmt.Sprintf("The number is at most %d.", mid)
	case HintDigitSum:
		sum := 0
		for _, r := range digits {
			sum += int(r - '0')
		}
		return fmt.Sprintf("The sum of the digits is %d.", sum)
	case HintFirstDigit:
		return fmt.Sprintf("The first digit is %c.", digits[0])
	case HintLastDigit:
		return fmt.Sprintf("The last digit is %c.", digits[len(digits)-1])
	}
	return ""
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
