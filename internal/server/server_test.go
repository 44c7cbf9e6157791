package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tubebrief/tubebrief/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	srv := New(&config.Config{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("body = %q, want %q", rec.Body.String(), "ok")
	}
}

func TestProtectedRoutesRequireKey(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("service-key"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("generate hash: %v", err)
	}
	srv := New(&config.Config{APIKeyHash: string(hash)}, nil)
	router := srv.Router()

	// Health stays open.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", rec.Code)
	}

	// API routes do not.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/export/md", strings.NewReader("{}")))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated export status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/export/md", strings.NewReader(`{"summary":"A body."}`))
	req.Header.Set("X-API-Key", "service-key")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated export status = %d, want 200", rec.Code)
	}
}
