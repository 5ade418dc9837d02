package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"article-podcaster/internal/pipeline"
	"article-podcaster/internal/storage"
	"article-podcaster/internal/vault"
)

type Handlers struct {
	generator *pipeline.Generator
	vault     *vault.Vault
	store     storage.Store
}

func New(generator *pipeline.Generator, v *vault.Vault, store storage.Store) *Handlers {
	return &Handlers{
		generator: generator,
		vault:     v,
		store:     store,
	}
}

// apiError is the structured error body every endpoint returns.
type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing left to do.
		return
	}
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, apiError{Error: message, Details: details})
}

func baseURL(r *http.Request) string {
	if appURL := os.Getenv("APP_URL"); appURL != "" {
		return appURL
	}

	scheme := "https"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS == nil {
		scheme = "http"
	}
	return scheme + "://" + r.Host
}
