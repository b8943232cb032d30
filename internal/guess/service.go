// Package guess tracks how many players have made a guess today. The
// count lives in the playerbase/guessCount singleton and is seeded
// with a small random value on the first read of each day.
package guess

import (
	"context"
	"math/rand"
	"time"

	"github.com/versele/versele-api/internal/docstore"
)

const (
	playerbaseCollection = "playerbase"
	guessCountDoc        = "guessCount"

	// Random padding for the daily seed while the player base is small.
	seedMin = 5
	seedMax = 15
)

type Service struct {
	store docstore.Store
	now   func() time.Time
}

func NewService(store docstore.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Count returns today's guess count, seeding the day with a random
// value in [seedMin, seedMax] if no count has been recorded yet.
func (s *Service) Count(ctx context.Context) (int, error) {
	today := s.today()

	var count int
	err := s.store.Update(ctx, playerbaseCollection, guessCountDoc, func(current map[string]any) (map[string]any, error) {
		if n, ok := countFor(current, today); ok {
			count = n
			return nil, docstore.ErrNoChange
		}
		count = seed()
		return map[string]any{"date": today, "count": count}, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Increment adds one to today's count and returns the new value. A
// missing or stale document is seeded for today first, so an increment
// right after midnight cannot bump yesterday's number or fail outright.
func (s *Service) Increment(ctx context.Context) (int, error) {
	today := s.today()

	var count int
	err := s.store.Update(ctx, playerbaseCollection, guessCountDoc, func(current map[string]any) (map[string]any, error) {
		n, ok := countFor(current, today)
		if !ok {
			n = seed()
		}
		count = n + 1
		return map[string]any{"date": today, "count": count}, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Service) today() string {
	return s.now().UTC().Format(time.DateOnly)
}

func seed() int {
	return seedMin + rand.Intn(seedMax-seedMin+1)
}

// countFor returns the stored count when the document belongs to the
// given date. Numeric types vary by backend: Firestore returns int64,
// JSON decoding yields float64.
func countFor(doc map[string]any, date string) (int, bool) {
	if doc == nil || doc["date"] != date {
		return 0, false
	}
	switch n := doc["count"].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
