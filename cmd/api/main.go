package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/versele/versele-api/internal/docstore"
	"github.com/versele/versele-api/internal/docstore/firestore"
	"github.com/versele/versele-api/internal/docstore/postgres"
	"github.com/versele/versele-api/internal/server"
	"github.com/versele/versele-api/pkg/config"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("error opening %s store: %v", cfg.StoreDriver, err)
	}
	defer store.Close()

	srv := server.NewServer(store, cfg)
	httpServer := srv.HTTPServer()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("error shutting down: %v", err)
		}
	}()

	log.Printf("listening on :%s (%s store)", cfg.Port, cfg.StoreDriver)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	log.Println("server stopped gracefully")
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
