package models

import "time"

// Settings is the single-row podcast configuration. API key columns hold
// vault ciphertext, never plaintext.
type Settings struct {
	ID                 int64     `db:"id"`
	PodcastTitle       string    `db:"podcast_title"`
	PodcastDescription string    `db:"podcast_description"`
	PodcastAuthor      string    `db:"podcast_author"`
	PodcastCoverURL    *string   `db:"podcast_cover_url"`
	DefaultTTSProvider string    `db:"default_tts_provider"`
	GoogleVoiceName    string    `db:"google_voice_name"`
	ElevenLabsVoiceID  *string   `db:"elevenlabs_voice_id"`
	GoogleTTSAPIKey    *string   `db:"google_tts_api_key"`
	ElevenLabsAPIKey   *string   `db:"elevenlabs_api_key"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// EncryptedKey returns the stored ciphertext for the given provider, or ""
// when no key is configured.
func (s *Settings) EncryptedKey(provider string) string {
	var key *string
	switch provider {
	case "google":
		key = s.GoogleTTSAPIKey
	case "elevenlabs":
		key = s.ElevenLabsAPIKey
	}
	if key == nil {
		return ""
	}
	return *key
}

// VoiceFor returns the configured voice selector for the given provider.
func (s *Settings) VoiceFor(provider string) string {
	switch provider {
	case "google":
		return s.GoogleVoiceName
	case "elevenlabs":
		if s.ElevenLabsVoiceID != nil {
			return *s.ElevenLabsVoiceID
		}
	}
	return ""
}
