package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func dialStream(t *testing.T, srv *httptest.Server, id string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/windows/" + id + "/stream"
	return websocket.Dial(ctx, url, nil)
}

func TestWindowStream(t *testing.T) {
	d := newTestDeps(t)
	srv := httptest.NewServer(newRouter(d))
	defer srv.Close()

	d.Sessions.Input("w1", "bra")

	conn, _, err := dialStream(t, srv, "w1")
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var win windowResponse
	if err := wsjson.Read(ctx, conn, &win); err != nil {
		t.Fatalf("first read error = %v", err)
	}
	if win.ID != "w1" || win.Seq != 1 || win.Suffix != "ve.com/" {
		t.Errorf("initial state = %+v", win)
	}

	d.Sessions.Input("w1", "brav")
	if err := wsjson.Read(ctx, conn, &win); err != nil {
		t.Fatalf("second read error = %v", err)
	}
	if win.Input != "brav" || win.Seq != 2 {
		t.Errorf("pushed state = %+v", win)
	}

	d.Sessions.Close("w1")
	err = wsjson.Read(ctx, conn, &win)
	if status := websocket.CloseStatus(err); status != websocket.StatusNormalClosure {
		t.Errorf("after window close: status = %v, err = %v", status, err)
	}
}

func TestWindowStreamUnknownWindow(t *testing.T) {
	srv := httptest.NewServer(newRouter(newTestDeps(t)))
	defer srv.Close()

	_, resp, err := dialStream(t, srv, "nope")
	if err == nil {
		t.Fatal("Dial() succeeded for an unknown window")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("Dial() response = %+v, want 404", resp)
	}
}

func TestAcceptOptions(t *testing.T) {
	tests := []struct {
		name     string
		origins  []string
		insecure bool
		patterns []string
	}{
		{name: "wildcard", origins: []string{"https://a.example", "*"}, insecure: true},
		{name: "urls become hosts", origins: []string{"https://a.example", "chrome-extension://abcdef"}, patterns: []string{"a.example", "abcdef"}},
		{name: "bare host kept", origins: []string{"b.example"}, patterns: []string{"b.example"}},
		{name: "none", patterns: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := acceptOptions(tt.origins)
			if opts.InsecureSkipVerify != tt.insecure {
				t.Errorf("InsecureSkipVerify = %v, want %v", opts.InsecureSkipVerify, tt.insecure)
			}
			if tt.insecure {
				return
			}
			if strings.Join(opts.OriginPatterns, ",") != strings.Join(tt.patterns, ",") {
				t.Errorf("OriginPatterns = %v, want %v", opts.OriginPatterns, tt.patterns)
			}
		})
	}
}
