package handlers

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/MrSnakeDoc/omnibox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/omnibox/internal/logger"
)

const streamWriteTimeout = 5 * time.Second

// WindowStream pushes the window state over a websocket after every change,
// so live search results reach the client without polling. The stream ends
// when the window closes or the client goes away.
func WindowStream(d deps.Deps) http.HandlerFunc {
	opts := acceptOptions(d.AllowedOrigins)

	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		updates, cancel, err := d.Sessions.Subscribe(id)
		if err != nil {
			writeWindowError(w, err)
			return
		}
		defer cancel()

		// Server read and write timeouts would otherwise survive the hijack
		rc := http.NewResponseController(w)
		_ = rc.SetReadDeadline(time.Time{})
		_ = rc.SetWriteDeadline(time.Time{})

		conn, err := websocket.Accept(w, r, opts)
		if err != nil {
			d.Logger.Debug("websocket upgrade failed",
				logger.String("window", id),
				logger.Error(err))
			return
		}
		defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()

		// The request deadline does not apply to a hijacked connection
		ctx := conn.CloseRead(context.WithoutCancel(r.Context()))

		for {
			select {
			case <-ctx.Done():
				return
			case bar, ok := <-updates:
				if !ok {
					_ = conn.Close(websocket.StatusNormalClosure, "window closed")
					return
				}
				writeCtx, cancelWrite := context.WithTimeout(ctx, streamWriteTimeout)
				err := wsjson.Write(writeCtx, conn, toWindowResponse(id, bar, d.SearchURL))
				cancelWrite()
				if err != nil {
					d.Logger.Debug("websocket write failed",
						logger.String("window", id),
						logger.Error(err))
					return
				}
			}
		}
	}
}

// acceptOptions turns the CORS origin list into websocket origin patterns.
// Same-host clients are always accepted.
func acceptOptions(allowedOrigins []string) *websocket.AcceptOptions {
	if slices.Contains(allowedOrigins, "*") {
		return &websocket.AcceptOptions{InsecureSkipVerify: true}
	}
	patterns := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, origin)
	}
	return &websocket.AcceptOptions{OriginPatterns: patterns}
}
