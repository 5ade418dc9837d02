package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"article-podcaster/internal/db"
)

// settingsView is Settings without the key ciphertexts. Clients only learn
// whether a key is configured.
type settingsView struct {
	ID                 int64     `json:"id"`
	PodcastTitle       string    `json:"podcast_title"`
	PodcastDescription string    `json:"podcast_description"`
	PodcastAuthor      string    `json:"podcast_author"`
	PodcastCoverURL    *string   `json:"podcast_cover_url"`
	DefaultTTSProvider string    `json:"default_tts_provider"`
	GoogleVoiceName    string    `json:"google_voice_name"`
	ElevenLabsVoiceID  *string   `json:"elevenlabs_voice_id"`
	HasGoogleKey       bool      `json:"has_google_key"`
	HasElevenLabsKey   bool      `json:"has_elevenlabs_key"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := db.GetSettings()
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Settings not found", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get settings", err.Error())
		return
	}

	view := settingsView{
		ID:                 settings.ID,
		PodcastTitle:       settings.PodcastTitle,
		PodcastDescription: settings.PodcastDescription,
		PodcastAuthor:      settings.PodcastAuthor,
		PodcastCoverURL:    settings.PodcastCoverURL,
		DefaultTTSProvider: settings.DefaultTTSProvider,
		GoogleVoiceName:    settings.GoogleVoiceName,
		ElevenLabsVoiceID:  settings.ElevenLabsVoiceID,
		HasGoogleKey:       settings.GoogleTTSAPIKey != nil && *settings.GoogleTTSAPIKey != "",
		HasElevenLabsKey:   settings.ElevenLabsAPIKey != nil && *settings.ElevenLabsAPIKey != "",
		CreatedAt:          settings.CreatedAt,
		UpdatedAt:          settings.UpdatedAt,
	}

	writeJSON(w, http.StatusOK, map[string]settingsView{"settings": view})
}

type updateSettingsRequest struct {
	PodcastTitle       *string `json:"podcast_title"`
	PodcastDescription *string `json:"podcast_description"`
	PodcastAuthor      *string `json:"podcast_author"`
	PodcastCoverURL    *string `json:"podcast_cover_url"`
	DefaultTTSProvider *string `json:"default_tts_provider"`
	GoogleVoiceName    *string `json:"google_voice_name"`
	ElevenLabsVoiceID  *string `json:"elevenlabs_voice_id"`
	GoogleTTSAPIKey    *string `json:"google_tts_api_key"`
	ElevenLabsAPIKey   *string `json:"elevenlabs_api_key"`
}

// UpdateSettings applies a partial update. Incoming API keys are plaintext
// from the client and are encrypted before they reach the store.
func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid update data", "")
		return
	}

	settings, err := db.GetSettings()
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Settings not found", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update settings", err.Error())
		return
	}

	update := db.SettingsUpdate{
		PodcastTitle:       req.PodcastTitle,
		PodcastDescription: req.PodcastDescription,
		PodcastAuthor:      req.PodcastAuthor,
		PodcastCoverURL:    req.PodcastCoverURL,
		DefaultTTSProvider: req.DefaultTTSProvider,
		GoogleVoiceName:    req.GoogleVoiceName,
		ElevenLabsVoiceID:  req.ElevenLabsVoiceID,
	}

	if req.GoogleTTSAPIKey != nil {
		ciphertext, err := h.vault.Encrypt(*req.GoogleTTSAPIKey)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update settings", err.Error())
			return
		}
		update.GoogleTTSAPIKey = &ciphertext
	}
	if req.ElevenLabsAPIKey != nil {
		ciphertext, err := h.vault.Encrypt(*req.ElevenLabsAPIKey)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update settings", err.Error())
			return
		}
		update.ElevenLabsAPIKey = &ciphertext
	}

	if err := db.UpdateSettings(settings.ID, update); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update settings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
