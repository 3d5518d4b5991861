package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/omnibox/internal/domain"
	"github.com/MrSnakeDoc/omnibox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/omnibox/internal/session"
)

type windowResponse struct {
	ID                  string               `json:"id"`
	Input               string               `json:"input"`
	Selected            int                  `json:"selected"`
	Visibility          domain.Visibility    `json:"visibility"`
	AutocompleteEnabled bool                 `json:"autocompleteEnabled"`
	Suggestions         []suggestionResponse `json:"suggestions"`
	Suffix              string               `json:"suffix"`
	Seq                 uint64               `json:"seq"`
}

type inputRequest struct {
	Text string `json:"text"`
}

type eventRequest struct {
	Event string `json:"event"`
}

type selectRequest struct {
	Index *int `json:"index"`
}

func toWindowResponse(id string, bar domain.URLBar, searchURL string) windowResponse {
	return windowResponse{
		ID:                  id,
		Input:               bar.Input,
		Selected:            bar.Selected,
		Visibility:          bar.Visibility,
		AutocompleteEnabled: bar.AutocompleteEnabled,
		Suggestions:         toSuggestionResponses(bar.Suggestions, searchURL),
		Suffix:              bar.Suffix,
		Seq:                 bar.Seq,
	}
}

func writeWindowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrWindowNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrInvalidIndex), errors.Is(err, domain.ErrUnknownEvent):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// OpenWindow creates a window with a server-assigned id
func OpenWindow(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, bar := d.Sessions.Open()
		w.Header().Set("Location", "/windows/"+id)
		writeJSON(w, http.StatusCreated, toWindowResponse(id, bar, d.SearchURL))
	}
}

// WindowInput records typed text for a window, creating it if needed
func WindowInput(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req inputRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		bar := d.Sessions.Input(id, req.Text)
		writeJSON(w, http.StatusOK, toWindowResponse(id, bar, d.SearchURL))
	}
}

// WindowEvent applies escape, blur, findbar, preview or delete to a window
func WindowEvent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req eventRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		ev, err := domain.ParseEvent(req.Event)
		if err != nil {
			writeWindowError(w, err)
			return
		}
		if ev == domain.EventInput {
			writeError(w, http.StatusBadRequest, "use the input endpoint to change text")
			return
		}

		bar, err := d.Sessions.Event(id, ev)
		if err != nil {
			writeWindowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toWindowResponse(id, bar, d.SearchURL))
	}
}

// WindowSelect moves the highlighted suggestion
func WindowSelect(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req selectRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Index == nil {
			writeError(w, http.StatusBadRequest, "index is required")
			return
		}

		bar, err := d.Sessions.Select(id, *req.Index)
		if err != nil {
			writeWindowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toWindowResponse(id, bar, d.SearchURL))
	}
}

// GetWindow returns the URL bar state of a window
func GetWindow(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		bar, err := d.Sessions.Get(id)
		if err != nil {
			writeWindowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toWindowResponse(id, bar, d.SearchURL))
	}
}

// CloseWindow forgets a window
func CloseWindow(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := d.Sessions.Close(id); err != nil {
			writeWindowError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
