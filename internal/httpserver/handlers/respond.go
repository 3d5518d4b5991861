package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/omnibox/internal/domain"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

// suggestionResponse is a SuggestionItem plus the URL to open. For search
// terms the URL is the expanded search template.
type suggestionResponse struct {
	Title    string                `json:"title,omitempty"`
	Location string                `json:"location"`
	Type     domain.SuggestionType `json:"type"`
	TabID    int                   `json:"tabId,omitempty"`
	URL      string                `json:"url"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	if dec.More() {
		return errors.New("failed to decode request body: trailing data")
	}
	return nil
}

func toSuggestionResponses(items []domain.SuggestionItem, searchURL string) []suggestionResponse {
	out := make([]suggestionResponse, 0, len(items))
	for _, item := range items {
		target := item.Location
		if item.Type == domain.TypeSearch && searchURL != "" {
			target = domain.SearchURL(searchURL, item.Location)
		}
		out = append(out, suggestionResponse{
			Title:    item.Title,
			Location: item.Location,
			Type:     item.Type,
			TabID:    item.TabID,
			URL:      target,
		})
	}
	return out
}
