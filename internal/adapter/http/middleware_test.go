package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"

	chatapi "github.com/edustack/concierge/internal/adapter/http"
	"github.com/edustack/concierge/internal/logger"
)

func TestRequestIDBridgesChiIDIntoLoggerContext(t *testing.T) {
	var captured string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = logger.RequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	chain := chimw.RequestID(chatapi.RequestID(inner))

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/agents", nil))

	if captured == "" {
		t.Fatal("request ID not visible through logger context")
	}
}

func TestRequestIDWithoutChiMiddleware(t *testing.T) {
	var captured string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = logger.RequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	chatapi.RequestID(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if captured != "" {
		t.Fatalf("expected empty ID without an upstream generator, got %q", captured)
	}
}
