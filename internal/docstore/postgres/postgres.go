// Package postgres backs the docstore port with a single JSONB table,
// for deployments that run against Postgres instead of Firestore.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/versele/versele-api/internal/docstore"
)

const maxBatchSize = 1000

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		doc_id     TEXT NOT NULL,
		data       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (collection, doc_id)
	)
`

const upsertMerge = `
	INSERT INTO documents (collection, doc_id, data)
	VALUES ($1, $2, $3)
	ON CONFLICT (collection, doc_id)
	DO UPDATE SET data = documents.data || EXCLUDED.data, updated_at = NOW()
`

const upsertReplace = `
	INSERT INTO documents (collection, doc_id, data)
	VALUES ($1, $2, $3)
	ON CONFLICT (collection, doc_id)
	DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
`

type Store struct {
	pool *pgxpool.Pool
}

func Open(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	var data map[string]any
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND doc_id = $2`,
		collection, id,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error {
	query := upsertReplace
	if merge {
		query = upsertMerge
	}
	_, err := s.pool.Exec(ctx, query, collection, id, data)
	return err
}

func (s *Store) Stream(ctx context.Context, collection string) ([]docstore.Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT doc_id, data FROM documents WHERE collection = $1 ORDER BY doc_id`,
		collection,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []docstore.Document
	for rows.Next() {
		var d docstore.Document
		if err := rows.Scan(&d.ID, &d.Data); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *Store) BatchSet(ctx context.Context, collection string, docs []docstore.Document) error {
	if len(docs) > maxBatchSize {
		return docstore.ErrBatchTooLarge
	}
	b := &pgx.Batch{}
	for _, d := range docs {
		b.Queue(upsertMerge, collection, d.ID, d.Data)
	}
	return s.pool.SendBatch(ctx, b).Close()
}

func (s *Store) MaxBatchSize() int {
	return maxBatchSize
}

func (s *Store) Update(ctx context.Context, collection, id string, fn docstore.UpdateFunc) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Serialize updates to the same document even before a row exists,
	// so concurrent first writes cannot both observe "missing".
	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`, collection+"/"+id,
	); err != nil {
		return err
	}

	var current map[string]any
	err = tx.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND doc_id = $2 FOR UPDATE`,
		collection, id,
	).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		current = nil
	} else if err != nil {
		return err
	}

	next, err := fn(current)
	if errors.Is(err, docstore.ErrNoChange) {
		return tx.Commit(ctx)
	}
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, upsertReplace, collection, id, next); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
