package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUnlessUpgrade(t *testing.T) {
	teapot := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
	}
	h := UnlessUpgrade(teapot)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name    string
		upgrade string
		want    int
	}{
		{name: "plain request", want: http.StatusTeapot},
		{name: "websocket", upgrade: "websocket", want: http.StatusOK},
		{name: "websocket mixed case", upgrade: "WebSocket", want: http.StatusOK},
		{name: "other upgrade", upgrade: "h2c", want: http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/windows/w1/stream", nil)
			if tt.upgrade != "" {
				req.Header.Set("Upgrade", tt.upgrade)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
