// Package docstore defines the document-store port the rest of the
// application talks to. Documents are schemaless field maps grouped
// into named collections; backends live in the subpackages.
package docstore

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrBatchTooLarge = errors.New("batch exceeds store write limit")

	// ErrNoChange may be returned from an UpdateFunc to commit nothing
	// and leave the document as it is.
	ErrNoChange = errors.New("no change")
)

// Document pairs a document id with its fields.
type Document struct {
	ID   string
	Data map[string]any
}

// UpdateFunc receives the current fields of a document (nil if the
// document does not exist) and returns the full replacement document.
type UpdateFunc func(current map[string]any) (map[string]any, error)

type Store interface {
	// Get returns the fields of a document, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (map[string]any, error)

	// Set writes a document. With merge, fields are merged into any
	// existing document instead of replacing it.
	Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error

	// Stream lists every document in a collection.
	Stream(ctx context.Context, collection string) ([]Document, error)

	// BatchSet merge-writes up to MaxBatchSize documents in one batch.
	BatchSet(ctx context.Context, collection string, docs []Document) error

	// MaxBatchSize is the backend's cap on documents per BatchSet call.
	MaxBatchSize() int

	// Update runs fn against the current document and writes its result
	// atomically, so concurrent read-check-write sequences on the same
	// document cannot interleave.
	Update(ctx context.Context, collection, id string, fn UpdateFunc) error

	Close() error
}
