package daily

import (
	"testing"
	"time"
)

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	tm := time.Date(2024, 3, 2, 5, 0, 0, 0, loc) // 2024-03-01 19:00 UTC
	if got := DateKey(tm); got != "2024-03-01" {
		t.Fatalf("DateKey=%s", got)
	}
}

func TestRandSameDaySameStream(t *testing.T) {
	morning := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)
	a, b := Rand(morning, "salt"), Rand(evening, "salt")
	for i := 0; i < 20; i++ {
		if x, y := a.IntN(500), b.IntN(500); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestSeedVariesByDateAndSalt(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	h1, l1 := Seed(day, "salt")
	h2, l2 := Seed(day.AddDate(0, 0, 1), "salt")
	h3, l3 := Seed(day, "other")
	if h1 == h2 && l1 == l2 {
		t.Fatal("consecutive days share a seed")
	}
	if h1 == h3 && l1 == l3 {
		t.Fatal("different salts share a seed")
	}
}
