// internal/ledger/ledger.go
//
// Finished-game ledger.
// Every session that reaches game over (win, loss or time-up) is written here
// so players can list their past games and compare scores.
//
// Notes:
//   - Writes are best effort from the HTTP layer; a failed insert never fails
//     the guess that finished the game.
//   - Rows are keyed by a UUID minted per finished session.

package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/mindreader/assets"
	"github.com/robalobadob/mindreader/internal/daily"
	"github.com/robalobadob/mindreader/internal/game"
)

const (
	defaultLimit = 20
	tsLayout     = "2006-01-02T15:04:05.000Z07:00" // fixed width so text order is time order
)

// Result is one finished game.
type Result struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"playerId"`
	Difficulty string    `json:"difficulty"`
	Mode       string    `json:"mode"`
	Daily      bool      `json:"daily"`
	Outcome    string    `json:"outcome"`
	Attempts   int       `json:"attempts"`
	HintsUsed  int       `json:"hintsUsed"`
	Points     int       `json:"points"`
	ElapsedMs  int64     `json:"elapsedMs"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// FromSession builds the ledger row for a finished session.
func FromSession(playerID string, s *game.Session, finishedAt time.Time) Result {
	return Result{
		ID:         uuid.NewString(),
		PlayerID:   playerID,
		Difficulty: string(s.Difficulty),
		Mode:       string(s.Mode),
		Daily:      s.Daily,
		Outcome:    string(s.Outcome()),
		Attempts:   s.Attempts,
		HintsUsed:  s.HintsUsed,
		Points:     s.Points,
		ElapsedMs:  finishedAt.Sub(s.StartTime).Milliseconds(),
		StartedAt:  s.StartTime.UTC(),
		FinishedAt: finishedAt.UTC(),
	}
}

// Ledger wraps the database handle.
type Ledger struct{ db *sql.DB }

// Open connects to dsn and applies the embedded migrations.
func Open(ctx context.Context, dsn string) (*Ledger, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if err := migrate(ctx, db, assets.Migrations, assets.MigrationsDir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate ledger: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the database. An in-memory ledger is gone afterwards.
func (l *Ledger) Close() error { return l.db.Close() }

// Record inserts r. Re-recording the same ID is ignored.
func (l *Ledger) Record(ctx context.Context, r Result) error {
	isDaily := 0
	if r.Daily {
		isDaily = 1
	}
	_, err := l.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO games
            (id, player_id, difficulty, mode, daily, day, outcome, attempts,
             hints_used, points, elapsed_ms, started_at, finished_at)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		r.ID, r.PlayerID, r.Difficulty, r.Mode, isDaily, daily.DateKey(r.StartedAt), r.Outcome, r.Attempts,
		r.HintsUsed, r.Points, r.ElapsedMs,
		r.StartedAt.UTC().Format(tsLayout), r.FinishedAt.UTC().Format(tsLayout),
	)
	return err
}

// ByPlayer lists a player's games, newest first.
func (l *Ledger) ByPlayer(ctx context.Context, playerID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx, `
        SELECT id, player_id, difficulty, mode, daily, outcome, attempts,
               hints_used, points, elapsed_ms, started_at, finished_at
        FROM games
        WHERE player_id=?
        ORDER BY finished_at DESC, rowid DESC
        LIMIT ?`, playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	return scanResults(rows)
}

// Query narrows a leaderboard.
type Query struct {
	Date  string // YYYY-MM-DD; when set only daily games started that day count
	Limit int    // default 20
}

// Leaderboard returns the best games by points, then by speed.
func (l *Ledger) Leaderboard(ctx context.Context, q Query) ([]Result, error) {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	where, args := `WHERE points > 0`, []any{}
	if q.Date != "" {
		where += ` AND daily=1 AND day=?`
		args = append(args, q.Date)
	}
	args = append(args, q.Limit)
	rows, err := l.db.QueryContext(ctx, `
        SELECT id, player_id, difficulty, mode, daily, outcome, attempts,
               hints_used, points, elapsed_ms, started_at, finished_at
        FROM games
        `+where+`
        ORDER BY points DESC, elapsed_ms ASC, created_at ASC
        LIMIT ?`, args...,
	)
	if err != nil {
		return nil, err
	}
	return scanResults(rows)
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	defer rows.Close()
	out := []Result{}
	for rows.Next() {
		var (
			r                 Result
			isDaily           int
			started, finished string
		)
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.Difficulty, &r.Mode, &isDaily, &r.Outcome, &r.Attempts,
			&r.HintsUsed, &r.Points, &r.ElapsedMs, &started, &finished); err != nil {
			return nil, err
		}
		r.Daily = isDaily == 1
		r.StartedAt, _ = time.Parse(tsLayout, started)
		r.FinishedAt, _ = time.Parse(tsLayout, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}
