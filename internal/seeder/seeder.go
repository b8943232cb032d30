// Package seeder bulk-loads verse records from a CSV or JSON file into
// the verses collection.
package seeder

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/versele/versele-api/internal/docstore"
	"github.com/versele/versele-api/pkg/util"
)

const versesCollection = "verses"

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Columns a verse row is expected to carry. Missing ones are logged
// and the load proceeds with whatever fields are present.
var expectedColumns = []string{"reference", "text", "version"}

type Loader struct {
	store docstore.Store
}

func NewLoader(store docstore.Store) *Loader {
	return &Loader{store: store}
}

// LoadFile reads rows from a .csv or .json file and upserts them.
// Unsupported extensions fail before any write. Returns the number of
// documents written.
func (l *Loader) LoadFile(ctx context.Context, path string) (int, error) {
	var (
		rows []map[string]any
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		rows, err = readJSON(path)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return 0, err
	}
	return l.Load(ctx, rows)
}

// Load upserts rows in merge-mode batches bounded by the store's
// batch-write limit.
func (l *Loader) Load(ctx context.Context, rows []map[string]any) (int, error) {
	warnMissingColumns(rows)

	docs := make([]docstore.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, docstore.Document{ID: DocID(row), Data: row})
	}

	size := l.store.MaxBatchSize()
	total := 0
	for start := 0; start < len(docs); start += size {
		end := min(start+size, len(docs))
		if err := l.store.BatchSet(ctx, versesCollection, docs[start:end]); err != nil {
			return total, err
		}
		total = end
		log.Printf("committed %d verses", total)
	}
	return total, nil
}

// DocID derives a stable document id for a row: an explicit id field
// wins, otherwise the reference is slugged.
func DocID(row map[string]any) string {
	if id, ok := row["id"]; ok && id != nil {
		if s := fmt.Sprint(id); s != "" {
			return s
		}
	}
	ref := ""
	if v, ok := row["reference"]; ok && v != nil {
		ref = fmt.Sprint(v)
	}
	return util.Slugify(ref)
}

func readJSON(path string) ([]map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%s must contain a JSON array of objects: %w", path, err)
	}
	return rows, nil
}

func readCSV(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]any, len(header))
		for i, col := range header {
			if i >= len(record) {
				break
			}
			// Empty cells are omitted so merge writes cannot blank
			// fields an earlier load set.
			if record[i] != "" {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func warnMissingColumns(rows []map[string]any) {
	if len(rows) == 0 {
		return
	}
	for _, col := range expectedColumns {
		if _, ok := rows[0][col]; !ok {
			log.Printf("warning: rows are missing expected column %q, loading anyway", col)
		}
	}
}
