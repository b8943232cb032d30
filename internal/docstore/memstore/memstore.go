// Package memstore is an in-memory docstore backend used by tests.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/versele/versele-api/internal/docstore"
)

type Store struct {
	mu        sync.Mutex
	cols      map[string]map[string]map[string]any
	batchSize int
	batches   []int
}

func New() *Store {
	return NewWithBatchSize(450)
}

func NewWithBatchSize(n int) *Store {
	return &Store{
		cols:      make(map[string]map[string]map[string]any),
		batchSize: n,
	}
}

func (s *Store) Get(_ context.Context, collection, id string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.cols[collection][id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return clone(data), nil
}

func (s *Store) Set(_ context.Context, collection, id string, data map[string]any, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(collection, id, data, merge)
	return nil
}

func (s *Store) Stream(_ context.Context, collection string) ([]docstore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.cols[collection]
	docs := make([]docstore.Document, 0, len(col))
	for id, data := range col {
		docs = append(docs, docstore.Document{ID: id, Data: clone(data)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *Store) BatchSet(_ context.Context, collection string, docs []docstore.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(docs) > s.batchSize {
		return docstore.ErrBatchTooLarge
	}
	for _, d := range docs {
		s.set(collection, d.ID, d.Data, true)
	}
	s.batches = append(s.batches, len(docs))
	return nil
}

func (s *Store) MaxBatchSize() int {
	return s.batchSize
}

func (s *Store) Update(_ context.Context, collection, id string, fn docstore.UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current map[string]any
	if data, ok := s.cols[collection][id]; ok {
		current = clone(data)
	}

	next, err := fn(current)
	if errors.Is(err, docstore.ErrNoChange) {
		return nil
	}
	if err != nil {
		return err
	}
	s.set(collection, id, next, false)
	return nil
}

func (s *Store) Close() error {
	return nil
}

// BatchSizes returns the size of every batch committed so far.
func (s *Store) BatchSizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.batches))
	copy(out, s.batches)
	return out
}

func (s *Store) set(collection, id string, data map[string]any, merge bool) {
	col, ok := s.cols[collection]
	if !ok {
		col = make(map[string]map[string]any)
		s.cols[collection] = col
	}
	if merge {
		if existing, ok := col[id]; ok {
			merged := clone(existing)
			for k, v := range data {
				merged[k] = v
			}
			col[id] = merged
			return
		}
	}
	col[id] = clone(data)
}

func clone(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
