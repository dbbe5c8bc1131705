package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/robalobadob/mindreader/internal/game"
)

func openTest(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(context.Background(), "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestOpenMigratesOnce(t *testing.T) {
	l := openTest(t)
	// second handle on the same shared database sees the recorded migrations
	again, err := Open(context.Background(), "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()

	var n int
	if err := l.db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("migrations recorded=%d want 2", n)
	}
}

func TestFromSession(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	clock := start
	e := game.NewEngine(nil, game.WithClock(func() time.Time { return clock }))
	if _, err := e.StartGame(game.DifficultyEasy, game.ModeNormal, 0); err != nil {
		t.Fatal(err)
	}
	target := e.Session().Target
	clock = clock.Add(4 * time.Second)
	if _, err := e.SubmitGuess(target); err != nil {
		t.Fatal(err)
	}

	r := FromSession("p1", e.Session(), clock)
	if r.ID == "" || r.PlayerID != "p1" || r.Outcome != "win" || r.Attempts != 1 {
		t.Fatalf("row: %+v", r)
	}
	if r.ElapsedMs != 4000 || r.Points != e.Session().Points || r.Points == 0 {
		t.Fatalf("row: %+v", r)
	}
}

func TestRecordAndByPlayer(t *testing.T) {
	ctx := context.Background()
	l := openTest(t)
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	rows := []Result{
		{ID: "a", PlayerID: "p1", Difficulty: "easy", Mode: "normal", Outcome: "win", Attempts: 3, Points: 900, StartedAt: base, FinishedAt: base.Add(time.Minute)},
		{ID: "b", PlayerID: "p1", Difficulty: "hard", Mode: "evil", Outcome: "loss", Attempts: 8, StartedAt: base, FinishedAt: base.Add(2 * time.Minute)},
		{ID: "c", PlayerID: "p2", Difficulty: "easy", Mode: "normal", Outcome: "win", Attempts: 1, Points: 950, StartedAt: base, FinishedAt: base.Add(time.Second)},
	}
	for _, r := range rows {
		if err := l.Record(ctx, r); err != nil {
			t.Fatalf("record %s: %v", r.ID, err)
		}
	}
	// duplicate IDs are ignored
	if err := l.Record(ctx, rows[0]); err != nil {
		t.Fatal(err)
	}

	got, err := l.ByPlayer(ctx, "p1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("ByPlayer order: %+v", got)
	}
	if !got[1].FinishedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("timestamp round trip: %v", got[1].FinishedAt)
	}

	none, err := l.ByPlayer(ctx, "ghost", 10)
	if err != nil || len(none) != 0 {
		t.Fatalf("unknown player: %v %v", none, err)
	}
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	l := openTest(t)
	day := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	rows := []Result{
		{ID: "slow", PlayerID: "p1", Outcome: "win", Points: 1800, ElapsedMs: 9000, StartedAt: day, FinishedAt: day},
		{ID: "fast", PlayerID: "p2", Outcome: "win", Points: 1800, ElapsedMs: 3000, StartedAt: day, FinishedAt: day},
		{ID: "top", PlayerID: "p3", Outcome: "win", Points: 4000, Daily: true, StartedAt: day, FinishedAt: day},
		{ID: "lost", PlayerID: "p4", Outcome: "loss", StartedAt: day, FinishedAt: day},
		{ID: "yesterday", PlayerID: "p5", Outcome: "win", Points: 100, Daily: true, StartedAt: day.AddDate(0, 0, -1), FinishedAt: day},
	}
	for _, r := range rows {
		if err := l.Record(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	all, err := l.Leaderboard(ctx, Query{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"top", "fast", "slow", "yesterday"}
	if len(all) != len(want) {
		t.Fatalf("leaderboard: %+v", all)
	}
	for i, id := range want {
		if all[i].ID != id {
			t.Fatalf("position %d: got %s want %s", i, all[i].ID, id)
		}
	}

	daily, err := l.Leaderboard(ctx, Query{Date: "2024-06-01", Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(daily) != 1 || daily[0].ID != "top" || !daily[0].Daily {
		t.Fatalf("daily leaderboard: %+v", daily)
	}
}
