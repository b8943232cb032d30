package guess

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/versele/versele-api/internal/docstore/memstore"
)

func fixedDay(t *testing.T, s *Service, day string) {
	t.Helper()
	parsed, err := time.Parse(time.DateOnly, day)
	if err != nil {
		t.Fatalf("bad test date %q: %v", day, err)
	}
	s.now = func() time.Time { return parsed }
}

func TestCountSeedsWithinRange(t *testing.T) {
	svc := NewService(memstore.New())
	fixedDay(t, svc, "2026-08-27")

	count, err := svc.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count < seedMin || count > seedMax {
		t.Errorf("seeded count = %d, want within [%d, %d]", count, seedMin, seedMax)
	}
}

func TestCountStableOnRepeatedReads(t *testing.T) {
	svc := NewService(memstore.New())
	fixedDay(t, svc, "2026-08-27")

	first, err := svc.Count(context.Background())
	if err != nil {
		t.Fatalf("first Count failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		count, err := svc.Count(context.Background())
		if err != nil {
			t.Fatalf("Count %d failed: %v", i, err)
		}
		if count != first {
			t.Fatalf("count changed on read: %d then %d", first, count)
		}
	}
}

func TestCountReseedsOnNewDay(t *testing.T) {
	store := memstore.New()
	err := store.Set(context.Background(), "playerbase", "guessCount", map[string]any{
		"date":  "2026-08-26",
		"count": 120,
	}, false)
	if err != nil {
		t.Fatalf("failed to seed stale counter: %v", err)
	}

	svc := NewService(store)
	fixedDay(t, svc, "2026-08-27")

	count, err := svc.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count < seedMin || count > seedMax {
		t.Errorf("stale day count = %d, want a fresh seed in [%d, %d]", count, seedMin, seedMax)
	}

	doc, err := store.Get(context.Background(), "playerbase", "guessCount")
	if err != nil {
		t.Fatalf("failed to read counter: %v", err)
	}
	if doc["date"] != "2026-08-27" {
		t.Errorf("counter date = %v, want 2026-08-27", doc["date"])
	}
}

func TestIncrementMonotonic(t *testing.T) {
	svc := NewService(memstore.New())
	fixedDay(t, svc, "2026-08-27")

	start, err := svc.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	const n = 25
	for i := 0; i < n; i++ {
		if _, err := svc.Increment(context.Background()); err != nil {
			t.Fatalf("Increment %d failed: %v", i, err)
		}
	}

	final, err := svc.Count(context.Background())
	if err != nil {
		t.Fatalf("final Count failed: %v", err)
	}
	if final != start+n {
		t.Errorf("count = %d after %d increments from %d, want %d", final, n, start, start+n)
	}
}

func TestIncrementSeedsUnseededDay(t *testing.T) {
	svc := NewService(memstore.New())
	fixedDay(t, svc, "2026-08-27")

	count, err := svc.Increment(context.Background())
	if err != nil {
		t.Fatalf("Increment on empty store failed: %v", err)
	}
	if count < seedMin+1 || count > seedMax+1 {
		t.Errorf("count = %d, want seed+1 within [%d, %d]", count, seedMin+1, seedMax+1)
	}
}

func TestIncrementReseedsStaleDate(t *testing.T) {
	store := memstore.New()
	err := store.Set(context.Background(), "playerbase", "guessCount", map[string]any{
		"date":  "2026-08-26",
		"count": 99,
	}, false)
	if err != nil {
		t.Fatalf("failed to seed stale counter: %v", err)
	}

	svc := NewService(store)
	fixedDay(t, svc, "2026-08-27")

	count, err := svc.Increment(context.Background())
	if err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if count == 100 {
		t.Error("increment bumped yesterday's count instead of reseeding")
	}
	if count < seedMin+1 || count > seedMax+1 {
		t.Errorf("count = %d, want seed+1 within [%d, %d]", count, seedMin+1, seedMax+1)
	}

	doc, err := store.Get(context.Background(), "playerbase", "guessCount")
	if err != nil {
		t.Fatalf("failed to read counter: %v", err)
	}
	if doc["date"] != "2026-08-27" {
		t.Errorf("counter date = %v, want 2026-08-27", doc["date"])
	}
}

func TestConcurrentIncrementsLoseNoUpdates(t *testing.T) {
	svc := NewService(memstore.New())
	fixedDay(t, svc, "2026-08-27")

	start, err := svc.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Increment(context.Background()); err != nil {
				t.Errorf("Increment failed: %v", err)
			}
		}()
	}
	wg.Wait()

	final, err := svc.Count(context.Background())
	if err != nil {
		t.Fatalf("final Count failed: %v", err)
	}
	if final != start+n {
		t.Errorf("count = %d after %d concurrent increments from %d, want %d", final, n, start, start+n)
	}
}

func TestCountForNumericTypes(t *testing.T) {
	// Firestore hands back int64, JSON decoding float64.
	for _, value := range []any{int(7), int64(7), float64(7)} {
		doc := map[string]any{"date": "2026-08-27", "count": value}
		n, ok := countFor(doc, "2026-08-27")
		if !ok || n != 7 {
			t.Errorf("countFor(%T) = (%d, %v), want (7, true)", value, n, ok)
		}
	}

	if _, ok := countFor(map[string]any{"date": "2026-08-27"}, "2026-08-27"); ok {
		t.Error("countFor accepted a document with no count field")
	}
	if _, ok := countFor(nil, "2026-08-27"); ok {
		t.Error("countFor accepted a missing document")
	}
}
