package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/omnibox/internal/logger"
)

func TestStatusWriter(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  int
		bytes   int
	}{
		{
			name:    "implicit ok",
			handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("hello")) },
			status:  http.StatusOK,
			bytes:   5,
		},
		{
			name:    "explicit status",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) },
			status:  http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sw := &statusWriter{ResponseWriter: httptest.NewRecorder()}
			tt.handler(sw, httptest.NewRequest(http.MethodGet, "/", nil))
			if sw.status != tt.status || sw.bytes != tt.bytes {
				t.Errorf("status=%d bytes=%d, want %d %d", sw.status, sw.bytes, tt.status, tt.bytes)
			}
		})
	}
}

func TestStatusWriterHijackUnsupported(t *testing.T) {
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder()}
	if _, _, err := sw.Hijack(); err == nil {
		t.Error("Hijack() on a recorder should fail")
	}
	if _, ok := sw.Unwrap().(*httptest.ResponseRecorder); !ok {
		t.Error("Unwrap() should return the wrapped writer")
	}
}

func TestRoutePattern(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.Use(Log(logger.Nop()))
	r.Get("/windows/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		got = routePattern(r)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/windows/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/abc", nil))

	if got != "/items/{id}" {
		t.Errorf("routePattern() = %q, want /items/{id}", got)
	}
	if p := routePattern(httptest.NewRequest(http.MethodGet, "/bare", nil)); p != "/bare" {
		t.Errorf("routePattern() without chi = %q, want /bare", p)
	}
}
