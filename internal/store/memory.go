// internal/store/memory.go
//
// In-memory implementation of the player Store.
// Players (profile + engine) live here for the lifetime of the process;
// nothing is written to disk.
//
// Characteristics:
//   - Stores *game.Player objects keyed by player ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Idle players can be swept on a ticker (see Sweeper).
//   - ErrNotFound is returned for unknown IDs on Get().

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mindreader/internal/game"
)

// ErrNotFound is returned by Get for unknown player IDs.
var ErrNotFound = errors.New("not found")

// Store defines the registry interface for players.
type Store interface {
	// Save adds or replaces a player.
	Save(ctx context.Context, p *game.Player) error

	// Get retrieves a player by ID.
	Get(ctx context.Context, id string) (*game.Player, error)

	// Sweep removes players idle since before cutoff and reports how many went.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex            // guards players map
	players map[string]*game.Player // keyed by Player.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{players: make(map[string]*game.Player)}
}

// Save adds or updates the player in the map.
func (m *memory) Save(ctx context.Context, p *game.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[p.ID] = p
	return nil
}

// Get looks up a player by ID.
func (m *memory) Get(ctx context.Context, id string) (*game.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.players[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

// Sweep drops players untouched since cutoff.
func (m *memory) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, p := range m.players {
		if p.IdleSince(cutoff) {
			delete(m.players, id)
			n++
		}
	}
	return n, nil
}

// Sweeper evicts players idle for longer than idle, checking every interval,
// until ctx is cancelled. Run it in its own goroutine.
func Sweeper(ctx context.Context, st Store, interval, idle time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := st.Sweep(ctx, now.Add(-idle))
			if err != nil {
				log.Warn().Err(err).Msg("sweep idle players")
				continue
			}
			if n > 0 {
				log.Debug().Int("evicted", n).Msg("swept idle players")
			}
		}
	}
}
