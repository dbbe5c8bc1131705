// internal/game/types.go
//
// Core type definitions for the number guessing engine.
// Defines:
//   - Difficulty and Mode: the closed sets a game is started with.
//   - Outcome, Temperature, Trend: the pieces of a guess's feedback.
//   - Session: state for a single in-progress or finished game.
//   - Entry: one record of the append-only guess/hint history.

package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Difficulty selects the range, attempt budget and hint budget of a game.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// Mode changes how a game plays out after the target has been drawn.
//   - normal: classic higher/lower.
//   - evil:   the target drifts by up to EvilRange after every non-initial guess.
//   - binary: the target is revealed in base 2 once the game ends.
//   - timed:  the game is lost when a guess arrives after TimeLimit seconds.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeEvil   Mode = "evil"
	ModeBinary Mode = "binary"
	ModeTimed  Mode = "timed"
)

var (
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrUnknownMode       = errors.New("unknown mode")
	ErrNoGame            = errors.New("no game started")
	ErrGameOver          = errors.New("game finished")
	ErrNoHints           = errors.New("no more hints available")
)

// Limits is one row of the difficulty table.
type Limits struct {
	Min         int
	Max         int
	MaxAttempts int
	Hints       int
	Multiplier  int // score multiplier
}

var difficultyTable = map[Difficulty]Limits{
	DifficultyEasy:   {Min: 1, Max: 50, MaxAttempts: 15, Hints: 3, Multiplier: 1},
	DifficultyMedium: {Min: 1, Max: 100, MaxAttempts: 10, Hints: 2, Multiplier: 2},
	DifficultyHard:   {Min: 1, Max: 200, MaxAttempts: 8, Hints: 1, Multiplier: 3},
	DifficultyExpert: {Min: 1, Max: 500, MaxAttempts: 6, Hints: 0, Multiplier: 5},
}

// LimitsFor returns the table row for d.
func LimitsFor(d Difficulty) (Limits, bool) {
	l, ok := difficultyTable[d]
	return l, ok
}

// ParseDifficulty normalises s and checks it against the closed set.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := difficultyTable[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

// ParseMode normalises s and checks it against the closed set.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

func (m Mode) valid() bool {
	switch m {
	case ModeNormal, ModeEvil, ModeBinary, ModeTimed:
		return true
	}
	return false
}

// Outcome is the kind of event a guess produced.
type Outcome string

const (
	OutcomeHigher Outcome = "higher"  // target is above the guess
	OutcomeLower  Outcome = "lower"   // target is at or below the guess
	OutcomeWin    Outcome = "win"
	OutcomeLoss   Outcome = "loss"    // attempts exhausted
	OutcomeTimeUp Outcome = "time_up" // timed mode deadline passed
)

// Temperature is the closeness band derived from proximity.
type Temperature string

const (
	TempBurning  Temperature = "burning"
	TempVeryHot  Temperature = "very hot"
	TempHot      Temperature = "hot"
	TempWarm     Temperature = "warm"
	TempCool     Temperature = "cool"
	TempCold     Temperature = "cold"
	TempFreezing Temperature = "freezing"
)

// Trend compares a guess's proximity with the previous one.
type Trend string

const (
	TrendNone   Trend = ""
	TrendWarmer Trend = "warmer"
	TrendColder Trend = "colder"
)

// Feedback is the event returned for a single guess.
type Feedback struct {
	Attempt     int         `json:"attempt"`
	Guess       int         `json:"guess"`
	Outcome     Outcome     `json:"outcome"`
	Proximity   float64     `json:"proximity"`
	Temperature Temperature `json:"temperature,omitempty"`
	Trend       Trend       `json:"trend,omitempty"`
	Target      int         `json:"target,omitempty"`      // loss and time_up only
	MaxAttempts int         `json:"maxAttempts,omitempty"` // loss only
}

// EntryKind tags history records.
type EntryKind string

const (
	EntryGuess EntryKind = "guess"
	EntryHint  EntryKind = "hint"
)

// Entry is one record of a session's history.
type Entry struct {
	Kind     EntryKind `json:"kind"`
	Text     string    `json:"text"`
	Feedback *Feedback `json:"feedback,omitempty"`
	Hint     *Hint     `json:"hint,omitempty"`
}

// Session holds the state of a single game.
type Session struct {
	Target         int        // secret value; only moves in evil mode
	Min            int        // inclusive lower bound
	Max            int        // inclusive upper bound
	Attempts       int        // guesses used
	MaxAttempts    int        // guesses allowed
	HintsUsed      int        // hints taken
	AvailableHints int        // hints allowed
	Proximity      float64    // closeness of the latest guess, 0..100
	LastProximity  float64    // closeness of the guess before it
	GameOver       bool       // terminal until the next StartGame
	Win            bool       // implies GameOver
	History        []Entry    // append-only, oldest first
	StartTime      time.Time  // set by StartGame
	Difficulty     Difficulty //
	Mode           Mode       //
	TimeLimit      int        // seconds; consulted in timed mode only
	EvilRange      int        // max drift per guess; evil mode only
	Points         int        // score earned by this session's win
	Daily          bool       // target drawn from the daily seed

	usedHints map[HintKind]bool
}

// Outcome reports the terminal outcome of a finished session, or "" while playing.
func (s *Session) Outcome() Outcome {
	if !s.GameOver {
		return ""
	}
	for i := len(s.History) - 1; i >= 0; i-- {
		if f := s.History[i].Feedback; f != nil {
			return f.Outcome
		}
	}
	if s.Win {
		return OutcomeWin
	}
	return OutcomeLoss
}
