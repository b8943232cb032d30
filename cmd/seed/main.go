// Seeds the verses collection from a CSV or JSON file.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/versele/versele-api/internal/docstore"
	"github.com/versele/versele-api/internal/docstore/firestore"
	"github.com/versele/versele-api/internal/docstore/postgres"
	"github.com/versele/versele-api/internal/seeder"
	"github.com/versele/versele-api/pkg/config"
)

func main() {
	cfg := config.LoadConfig()

	file := flag.String("file", "", "path to the verses file (.csv or .json)")
	flag.Parse()

	path := *file
	if path == "" {
		path = cfg.VersesFile
	}
	if path == "" {
		path = "verses.json"
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("error opening %s store: %v", cfg.StoreDriver, err)
	}
	defer store.Close()

	n, err := seeder.NewLoader(store).LoadFile(ctx, path)
	if err != nil {
		log.Fatalf("error loading %s: %v", path, err)
	}
	log.Printf("done. wrote %d docs to %q", n, "verses")
}

func openStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.DatabaseURL)
	default:
		return firestore.Open(ctx, firestore.Options{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsFile: cfg.FirebaseCredentialsFile,
			CredentialsJSON: cfg.FirebaseServiceAccount,
		})
	}
}
