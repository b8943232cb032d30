package verse

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/versele/versele-api/internal/docstore"
)

const (
	versesCollection = "verses"
	configCollection = "config"
	verseOfTheDayDoc = "verseOfTheDay"
)

var ErrNoVerses = errors.New("no verses in database")

// Service picks the verse of the day. The pick is persisted in the
// config/verseOfTheDay singleton so every instance serves the same
// verse for the rest of the UTC calendar day.
type Service struct {
	store docstore.Store
	now   func() time.Time
}

func NewService(store docstore.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Today returns today's verse, choosing one at random if none has been
// picked yet. The returned map is the stored verse document with its
// id merged in; fields pass through untouched.
func (s *Service) Today(ctx context.Context) (map[string]any, error) {
	today := s.today()

	// Fast path: after the day's first request only two reads run.
	cur, err := s.store.Get(ctx, configCollection, verseOfTheDayDoc)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return nil, err
	}
	if id, ok := pickFor(cur, today); ok {
		return s.verseByID(ctx, id)
	}

	docs, err := s.store.Stream(ctx, versesCollection)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNoVerses
	}
	candidate := docs[rand.Intn(len(docs))]

	// The singleton write decides the winner: whoever commits first
	// fixes the day's verse, and everyone else keeps that pick.
	winnerID := candidate.ID
	err = s.store.Update(ctx, configCollection, verseOfTheDayDoc, func(current map[string]any) (map[string]any, error) {
		if id, ok := pickFor(current, today); ok {
			winnerID = id
			return nil, docstore.ErrNoChange
		}
		return map[string]any{"date": today, "verseId": winnerID}, nil
	})
	if err != nil {
		return nil, err
	}
	return s.verseByID(ctx, winnerID)
}

func (s *Service) verseByID(ctx context.Context, id string) (map[string]any, error) {
	data, err := s.store.Get(ctx, versesCollection, id)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out["id"] = id
	return out, nil
}

func (s *Service) today() string {
	return s.now().UTC().Format(time.DateOnly)
}

// pickFor returns the persisted verse id when the singleton belongs to
// the given date.
func pickFor(doc map[string]any, date string) (string, bool) {
	if doc == nil || doc["date"] != date {
		return "", false
	}
	id, ok := doc["verseId"].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
