// Package firestore backs the docstore port with Google Cloud Firestore.
package firestore

import (
	"context"
	"errors"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/versele/versele-api/internal/docstore"
)

// Firestore rejects batches above 500 writes; stay under with margin.
const maxBatchSize = 450

type Options struct {
	ProjectID string
	// CredentialsFile is the path to a service-account key file. It is
	// preferred over CredentialsJSON when both are set.
	CredentialsFile string
	// CredentialsJSON is an inline service-account key.
	CredentialsJSON string
}

type Store struct {
	client *fs.Client
}

func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.ProjectID == "" {
		return nil, errors.New("firestore: project id not set")
	}

	var clientOpts []option.ClientOption
	switch {
	case opts.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	case opts.CredentialsJSON != "":
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(opts.CredentialsJSON)))
	default:
		return nil, errors.New("firestore: no credentials provided")
	}

	client, err := fs.NewClient(ctx, opts.ProjectID, clientOpts...)
	if err != nil {
		return nil, err
	}
	return &Store{client: client}, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return snap.Data(), nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error {
	ref := s.client.Collection(collection).Doc(id)
	var err error
	if merge {
		_, err = ref.Set(ctx, data, fs.MergeAll)
	} else {
		_, err = ref.Set(ctx, data)
	}
	return err
}

func (s *Store) Stream(ctx context.Context, collection string) ([]docstore.Document, error) {
	iter := s.client.Collection(collection).Documents(ctx)
	defer iter.Stop()

	var docs []docstore.Document
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, docstore.Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
}

func (s *Store) BatchSet(ctx context.Context, collection string, docs []docstore.Document) error {
	if len(docs) > maxBatchSize {
		return docstore.ErrBatchTooLarge
	}
	batch := s.client.Batch()
	col := s.client.Collection(collection)
	for _, d := range docs {
		batch.Set(col.Doc(d.ID), d.Data, fs.MergeAll)
	}
	_, err := batch.Commit(ctx)
	return err
}

func (s *Store) MaxBatchSize() int {
	return maxBatchSize
}

func (s *Store) Update(ctx context.Context, collection, id string, fn docstore.UpdateFunc) error {
	ref := s.client.Collection(collection).Doc(id)
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *fs.Transaction) error {
		var current map[string]any
		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
			current = nil
		case err != nil:
			return err
		default:
			current = snap.Data()
		}

		next, err := fn(current)
		if errors.Is(err, docstore.ErrNoChange) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Set(ref, next)
	})
}

func (s *Store) Close() error {
	return s.client.Close()
}
