package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/versele/versele-api/internal/docstore/memstore"
	"github.com/versele/versele-api/pkg/config"
)

func newTestServer(t *testing.T, store *memstore.Store) http.Handler {
	t.Helper()
	s := NewServer(store, &config.Config{Port: "0"})
	return s.RegisterRoutes()
}

func seedVerse(t *testing.T, store *memstore.Store, id string) {
	t.Helper()
	err := store.Set(context.Background(), "verses", id, map[string]any{
		"reference": "John 3:16",
		"text":      "For God so loved the world...",
		"version":   "NIV",
	}, false)
	if err != nil {
		t.Fatalf("failed to seed verse: %v", err)
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t, memstore.New())

	rec := get(t, h, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf(`status field = %q, want "ok"`, body["status"])
	}
}

func TestTodayEndpoint(t *testing.T) {
	store := memstore.New()
	seedVerse(t, store, "john-3-16")
	h := newTestServer(t, store)

	rec := get(t, h, "/today")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["id"] != "john-3-16" {
		t.Errorf("id = %v, want john-3-16", body["id"])
	}
	if body["text"] != "For God so loved the world..." {
		t.Errorf("text = %v", body["text"])
	}
}

func TestTodayEndpointEmptyStore(t *testing.T) {
	h := newTestServer(t, memstore.New())

	rec := get(t, h, "/today")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestGuessCountEndpoints(t *testing.T) {
	h := newTestServer(t, memstore.New())

	rec := get(t, h, "/get_guess_count")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var body map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	seeded := body["count"]
	if seeded < 5 || seeded > 15 {
		t.Errorf("seeded count = %d, want within [5, 15]", seeded)
	}

	rec = get(t, h, "/set_guess_count")
	if rec.Code != http.StatusOK {
		t.Fatalf("set status = %d, want 200", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["count"] != seeded+1 {
		t.Errorf("count after increment = %d, want %d", body["count"], seeded+1)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, memstore.New())

	req := httptest.NewRequest(http.MethodOptions, "/today", nil)
	req.Header.Set("Origin", "https://versele.org")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://versele.org" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Access-Control-Allow-Credentials = %q", got)
	}
}
