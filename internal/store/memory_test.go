package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/mindreader/internal/game"
)

func TestMemorySaveGet(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	if _, err := st.Get(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	p := game.NewPlayer("p1")
	if err := st.Save(ctx, p); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if got != p {
		t.Fatal("Get returned a different player")
	}
}

func TestMemorySweep(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	_ = st.Save(ctx, game.NewPlayer("old"))
	_ = st.Save(ctx, game.NewPlayer("new"))

	n, err := st.Sweep(ctx, time.Now().Add(-time.Hour))
	if err != nil || n != 0 {
		t.Fatalf("sweep with past cutoff: n=%d err=%v", n, err)
	}

	n, err = st.Sweep(ctx, time.Now().Add(time.Hour))
	if err != nil || n != 2 {
		t.Fatalf("sweep with future cutoff: n=%d err=%v", n, err)
	}
	if _, err := st.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("swept player still present: %v", err)
	}
}

func TestSweeperStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	st := NewMemoryStore()
	_ = st.Save(ctx, game.NewPlayer("p1"))

	done := make(chan struct{})
	go func() {
		Sweeper(ctx, st, 5*time.Millisecond, -time.Hour)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		if _, err := st.Get(ctx, "p1"); errors.Is(err, ErrNotFound) {
			break
		}
		select {
		case <-deadline:
			t.Fatal("sweeper never evicted the idle player")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
