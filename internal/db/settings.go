package db

import (
	"article-podcaster/internal/models"
)

func GetSettings() (models.Settings, error) {
	settings := models.Settings{}
	err := DB.Get(&settings, "SELECT * FROM settings LIMIT 1")
	return settings, notFound(err)
}

// SettingsUpdate carries the fields of a partial settings update. Nil fields
// are left unchanged. API key fields must already be vault ciphertext by the
// time they reach this layer.
type SettingsUpdate struct {
	PodcastTitle       *string
	PodcastDescription *string
	PodcastAuthor      *string
	PodcastCoverURL    *string
	DefaultTTSProvider *string
	GoogleVoiceName    *string
	ElevenLabsVoiceID  *string
	GoogleTTSAPIKey    *string
	ElevenLabsAPIKey   *string
}

func UpdateSettings(id int64, u SettingsUpdate) error {
	_, err := DB.Exec(`
		UPDATE settings SET
			podcast_title = COALESCE($1, podcast_title),
			podcast_description = COALESCE($2, podcast_description),
			podcast_author = COALESCE($3, podcast_author),
			podcast_cover_url = COALESCE($4, podcast_cover_url),
			default_tts_provider = COALESCE($5, default_tts_provider),
			google_voice_name = COALESCE($6, google_voice_name),
			elevenlabs_voice_id = COALESCE($7, elevenlabs_voice_id),
			google_tts_api_key = COALESCE($8, google_tts_api_key),
			elevenlabs_api_key = COALESCE($9, elevenlabs_api_key),
			updated_at = NOW()
		WHERE id = $10`,
		u.PodcastTitle, u.PodcastDescription, u.PodcastAuthor, u.PodcastCoverURL,
		u.DefaultTTSProvider, u.GoogleVoiceName, u.ElevenLabsVoiceID,
		u.GoogleTTSAPIKey, u.ElevenLabsAPIKey, id)
	return err
}
