// internal/game/profile.go
//
// Per-player state that outlives individual sessions.
//   - PlayerProfile: cumulative score, streak and best streak.
//   - Player: a profile plus the engine playing on its behalf.
//
// A profile is created once and handed to its engine by reference; only
// SubmitGuess mutates it.

package game

import (
	"sync"
	"time"
)

// PlayerProfile is the score/streak triple plus basic counters.
type PlayerProfile struct {
	Score       int `json:"score"`
	Streak      int `json:"streak"`
	BestStreak  int `json:"bestStreak"`
	GamesPlayed int `json:"gamesPlayed"`
	Wins        int `json:"wins"`
}

func (p *PlayerProfile) recordWin(points int) {
	p.Score += points
	p.Streak++
	p.Wins++
	if p.Streak > p.BestStreak {
		p.BestStreak = p.Streak
	}
}

func (p *PlayerProfile) breakStreak() { p.Streak = 0 }

// Player binds an identity to its profile and engine.
// Callers hold the lock for the whole of a command so an engine never sees
// concurrent mutation.
type Player struct {
	ID      string
	Profile *PlayerProfile
	Engine  *Engine

	mu       sync.Mutex
	lastSeen time.Time
}

// NewPlayer creates a player with a fresh profile and an engine bound to it.
func NewPlayer(id string, opts ...Option) *Player {
	prof := &PlayerProfile{}
	return &Player{
		ID:       id,
		Profile:  prof,
		Engine:   NewEngine(prof, opts...),
		lastSeen: time.Now(),
	}
}

// Do runs fn with the player locked and marks the player as seen.
func (p *Player) Do(fn func(e *Engine) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastSeen = time.Now()
	return fn(p.Engine)
}

// IdleSince reports whether the player has been untouched since t.
func (p *Player) IdleSince(t time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen.Before(t)
}
