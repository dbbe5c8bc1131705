// internal/game/engine.go
//
// Core game engine for a single player's number guessing sessions.
// Responsibilities:
//   - Start sessions from the difficulty table (range, attempts, hints).
//   - Apply guesses: evil-mode drift, proximity, win/loss, timed expiry.
//   - Credit wins and break streaks on the player's profile.
//   - Expose read-only snapshots for rendering.
//
// Notes:
//   - The engine is synchronous and not safe for concurrent use; Player.Do
//     serialises access.
//   - Randomness and time are injected (Rand, clock) so tests can script them.
//   - Hints live in hints.go, scoring in score.go.

package game

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"
)

const (
	defaultTimeLimit = 60
	minTimeLimit     = 30
	maxTimeLimit     = 120
)

// Rand is the random source the engine draws from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// globalRand draws from the math/rand/v2 top-level source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Engine runs one session at a time for one profile.
type Engine struct {
	profile *PlayerProfile
	rng     Rand
	now     func() time.Time
	sess    *Session
	sessRng Rand // overrides rng for the current session when set
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand replaces the default random source.
func WithRand(r Rand) Option { return func(e *Engine) { e.rng = r } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// NewEngine returns an engine crediting results to profile.
// A nil profile gets a fresh one.
func NewEngine(profile *PlayerProfile, opts ...Option) *Engine {
	if profile == nil {
		profile = &PlayerProfile{}
	}
	e := &Engine{profile: profile, rng: globalRand{}, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Profile returns the profile this engine credits.
func (e *Engine) Profile() *PlayerProfile { return e.profile }

// Session returns the current session, or nil before the first StartGame.
// The pointer must be treated as read-only.
func (e *Engine) Session() *Session { return e.sess }

// StartGame replaces the current session with a fresh one.
// timeLimit is in seconds; zero selects the default and other values are
// clamped to [30,120]. It is ignored outside timed mode.
func (e *Engine) StartGame(d Difficulty, m Mode, timeLimit int) (Snapshot, error) {
	return e.start(d, m, timeLimit, nil)
}

// StartSeeded is StartGame with a dedicated random source for the whole
// session, so the target, drift and hint order are reproducible.
func (e *Engine) StartSeeded(d Difficulty, m Mode, timeLimit int, r Rand) (Snapshot, error) {
	return e.start(d, m, timeLimit, r)
}

func (e *Engine) start(d Difficulty, m Mode, timeLimit int, r Rand) (Snapshot, error) {
	lim, ok := difficultyTable[d]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, d)
	}
	if !m.valid() {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownMode, m)
	}

	e.sessRng = r
	s := &Session{
		Min:            lim.Min,
		Max:            lim.Max,
		MaxAttempts:    lim.MaxAttempts,
		AvailableHints: lim.Hints,
		Difficulty:     d,
		Mode:           m,
		TimeLimit:      clampTimeLimit(timeLimit),
		History:        []Entry{},
		Daily:          r != nil,
		usedHints:      make(map[HintKind]bool),
	}
	s.Target = e.between(s.Min, s.Max)
	if m == ModeEvil {
		s.EvilRange = max(5, int(math.Round(0.05*float64(s.Max-s.Min))))
	}
	s.StartTime = e.now()
	e.sess = s
	return e.Snapshot(), nil
}

// SubmitGuess applies one guess and returns the resulting event.
//
// Order of evaluation:
//  1. count the attempt;
//  2. evil mode, from the second attempt on: drift the target and clamp it;
//  3. recompute proximity;
//  4. win, else loss on the last attempt, else higher/lower with temperature
//     and trend;
//  5. timed mode past the deadline: replace whatever 4 produced with a
//     time-up event, even a win;
//  6. append the record to history.
//
// Out-of-range guesses are measured like any other guess.
func (e *Engine) SubmitGuess(guess int) (Feedback, error) {
	s := e.sess
	if s == nil {
		return Feedback{}, ErrNoGame
	}
	if s.GameOver {
		return Feedback{}, ErrGameOver
	}
	elapsed := e.now().Sub(s.StartTime)

	s.Attempts++
	if s.Mode == ModeEvil && s.Attempts > 1 {
		shift := e.between(-s.EvilRange, s.EvilRange)
		s.Target = clamp(s.Target+shift, s.Min, s.Max)
	}

	s.LastProximity = s.Proximity
	s.Proximity = Proximity(guess, s.Target, s.Min, s.Max)

	fb := Feedback{Attempt: s.Attempts, Guess: guess, Proximity: s.Proximity}
	switch {
	case guess == s.Target:
		s.Win, s.GameOver = true, true
		s.Points = Score(s.Attempts, s.HintsUsed, s.Difficulty, elapsed.Seconds(), s.MaxAttempts)
		e.profile.recordWin(s.Points)
		fb.Outcome = OutcomeWin
	case s.Attempts >= s.MaxAttempts:
		s.GameOver = true
		e.profile.breakStreak()
		fb.Outcome = OutcomeLoss
		fb.Target = s.Target
		fb.MaxAttempts = s.MaxAttempts
	default:
		fb.Outcome = OutcomeLower
		if guess < s.Target {
			fb.Outcome = OutcomeHigher
		}
		fb.Temperature = TemperatureOf(s.Proximity)
		if s.Attempts > 1 {
			fb.Trend = trendOf(s.Proximity, s.LastProximity)
		}
	}

	// A late win is still a loss: points already credited stay, the streak does not.
	if s.Mode == ModeTimed && elapsed > time.Duration(s.TimeLimit)*time.Second {
		s.GameOver = true
		e.profile.breakStreak()
		fb = Feedback{
			Attempt:   s.Attempts,
			Guess:     guess,
			Outcome:   OutcomeTimeUp,
			Proximity: s.Proximity,
			Target:    s.Target,
		}
	}
	if s.GameOver {
		e.profile.GamesPlayed++
	}

	rec := fb
	s.History = append(s.History, Entry{
		Kind:     EntryGuess,
		Text:     fmt.Sprintf("Guess %d: %d - %s", s.Attempts, guess, fb),
		Feedback: &rec,
	})
	return fb, nil
}

// Elapsed is the time since the current session started.
func (e *Engine) Elapsed() time.Duration {
	if e.sess == nil {
		return 0
	}
	return e.now().Sub(e.sess.StartTime)
}

// Remaining is the time left before a timed session expires; zero for other
// modes and once the deadline has passed.
func (e *Engine) Remaining() time.Duration {
	if e.sess == nil || e.sess.Mode != ModeTimed {
		return 0
	}
	left := time.Duration(e.sess.TimeLimit)*time.Second - e.Elapsed()
	if left < 0 {
		return 0
	}
	return left
}

// between draws uniformly from [lo, hi].
func (e *Engine) between(lo, hi int) int {
	r := e.rng
	if e.sessRng != nil {
		r = e.sessRng
	}
	return lo + r.IntN(hi-lo+1)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func clampTimeLimit(secs int) int {
	if secs == 0 {
		return defaultTimeLimit
	}
	return clamp(secs, minTimeLimit, maxTimeLimit)
}

// ----------------------------- snapshots -----------------------------------

// Snapshot is a read-only view of a session for rendering.
type Snapshot struct {
	Difficulty     Difficulty    `json:"difficulty"`
	Mode           Mode          `json:"mode"`
	Min            int           `json:"min"`
	Max            int           `json:"max"`
	Attempts       int           `json:"attempts"`
	MaxAttempts    int           `json:"maxAttempts"`
	AttemptsLeft   int           `json:"attemptsLeft"`
	HintsUsed      int           `json:"hintsUsed"`
	AvailableHints int           `json:"availableHints"`
	HintsLeft      int           `json:"hintsLeft"`
	Proximity      float64       `json:"proximity"`
	Temperature    Temperature   `json:"temperature,omitempty"` // after the first guess
	GameOver       bool          `json:"gameOver"`
	Win            bool          `json:"win"`
	Points         int           `json:"points,omitempty"`
	Target         *int          `json:"target,omitempty"` // after game over
	Binary         string        `json:"binary,omitempty"` // binary mode, after game over
	History        []Entry       `json:"history"`          // newest first
	Elapsed        float64       `json:"elapsedSeconds"`
	TimeLimit      int           `json:"timeLimit,omitempty"`        // timed mode
	Remaining      *float64      `json:"remainingSeconds,omitempty"` // timed mode
	Daily          bool          `json:"daily,omitempty"`
	Profile        PlayerProfile `json:"profile"`
}

// Snapshot copies the current session. Before the first StartGame only the
// profile is populated.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{Profile: *e.profile, History: []Entry{}}
	s := e.sess
	if s == nil {
		return snap
	}
	snap.Difficulty = s.Difficulty
	snap.Mode = s.Mode
	snap.Min, snap.Max = s.Min, s.Max
	snap.Attempts, snap.MaxAttempts = s.Attempts, s.MaxAttempts
	snap.AttemptsLeft = s.MaxAttempts - s.Attempts
	snap.HintsUsed, snap.AvailableHints = s.HintsUsed, s.AvailableHints
	snap.HintsLeft = s.AvailableHints - s.HintsUsed
	snap.Proximity = s.Proximity
	if s.Attempts > 0 {
		snap.Temperature = TemperatureOf(s.Proximity)
	}
	snap.GameOver, snap.Win = s.GameOver, s.Win
	snap.Points = s.Points
	snap.Daily = s.Daily
	if s.GameOver {
		t := s.Target
		snap.Target = &t
		if s.Mode == ModeBinary {
			snap.Binary = strconv.FormatInt(int64(t), 2)
		}
	}
	for i := len(s.History) - 1; i >= 0; i-- {
		snap.History = append(snap.History, s.History[i])
	}
	snap.Elapsed = e.Elapsed().Seconds()
	if s.Mode == ModeTimed {
		snap.TimeLimit = s.TimeLimit
		left := e.Remaining().Seconds()
		snap.Remaining = &left
	}
	return snap
}
