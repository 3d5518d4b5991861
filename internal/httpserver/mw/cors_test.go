package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		preflight   bool
		wantStatus  int
		wantOrigin  string
		wantMethods bool
	}{
		{name: "no origin header", allowed: []string{"*"}, method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "cors disabled", method: http.MethodGet, origin: "https://a.test", wantStatus: http.StatusOK},
		{name: "wildcard", allowed: []string{"*"}, method: http.MethodGet, origin: "https://a.test", wantStatus: http.StatusOK, wantOrigin: "https://a.test"},
		{name: "listed origin", allowed: []string{"https://A.test"}, method: http.MethodGet, origin: "https://a.test", wantStatus: http.StatusOK, wantOrigin: "https://a.test"},
		{name: "unlisted origin passes without headers", allowed: []string{"https://a.test"}, method: http.MethodGet, origin: "https://b.test", wantStatus: http.StatusOK},
		{name: "preflight", allowed: []string{"https://a.test"}, method: http.MethodOptions, origin: "https://a.test", preflight: true, wantStatus: http.StatusNoContent, wantOrigin: "https://a.test", wantMethods: true},
		{name: "rejected preflight", allowed: []string{"https://a.test"}, method: http.MethodOptions, origin: "https://b.test", preflight: true, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/suggest", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()

			CORS(tt.allowed)(ok).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := rec.Header().Get("Access-Control-Allow-Methods") != ""; got != tt.wantMethods {
				t.Errorf("Allow-Methods present = %v, want %v", got, tt.wantMethods)
			}
		})
	}
}
