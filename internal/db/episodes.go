package db

import (
	"article-podcaster/internal/models"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

func CreateEpisode(articleID int64, ttsProvider string) (models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, `
		INSERT INTO episodes (article_id, audio_url, status, tts_provider)
		VALUES ($1, '', $2, $3) RETURNING *`,
		articleID, StatusPending, ttsProvider)
	return episode, err
}

func GetEpisodeByArticleID(articleID int64) (models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, "SELECT * FROM episodes WHERE article_id = $1", articleID)
	return episode, notFound(err)
}

func GetAllEpisodes() ([]models.Episode, error) {
	episodes := []models.Episode{}
	err := DB.Select(&episodes, "SELECT * FROM episodes")
	return episodes, err
}

func GetFailedEpisodes() ([]models.Episode, error) {
	episodes := []models.Episode{}
	err := DB.Select(&episodes, "SELECT * FROM episodes WHERE status = $1", StatusFailed)
	return episodes, err
}

// GetCompletedEpisodesWithArticles returns the feed content, newest first.
func GetCompletedEpisodesWithArticles() ([]models.EpisodeWithArticle, error) {
	episodes := []models.EpisodeWithArticle{}
	err := DB.Select(&episodes, `
		SELECT e.*, a.title AS article_title, a.url AS article_url, a.author AS article_author
		FROM episodes e
		JOIN articles a ON a.id = e.article_id
		WHERE e.status = $1
		ORDER BY e.completed_at DESC`, StatusCompleted)
	return episodes, err
}

func UpdateEpisodeStatus(id int64, status string) error {
	_, err := DB.Exec("UPDATE episodes SET status = $1 WHERE id = $2", status, id)
	return err
}

func UpdateEpisodeCompleted(id int64, audioURL string, duration int, fileSize int64, ttsProvider string) error {
	_, err := DB.Exec(`
		UPDATE episodes
		SET status = 'completed', audio_url = $1, duration = $2, file_size = $3,
		    tts_provider = $4, completed_at = NOW(), error_message = NULL
		WHERE id = $5`,
		audioURL, duration, fileSize, ttsProvider, id)
	return err
}

// UpdateEpisodeFailed records the failure detail; prior audio fields are left
// untouched so a previously completed episode keeps its last good audio.
func UpdateEpisodeFailed(id int64, errorMessage string) error {
	_, err := DB.Exec("UPDATE episodes SET status = 'failed', error_message = $1 WHERE id = $2", errorMessage, id)
	return err
}

// EpisodeStatistics aggregates the numbers shown on the dashboard.
type EpisodeStatistics struct {
	TotalEpisodes     int   `db:"total_episodes"`
	CompletedEpisodes int   `db:"completed_episodes"`
	TotalDuration     int   `db:"total_duration"`
	TotalSize         int64 `db:"total_size"`
}

func GetEpisodeStatistics() (EpisodeStatistics, error) {
	stats := EpisodeStatistics{}
	err := DB.Get(&stats, `
		SELECT COUNT(*) AS total_episodes,
		       COUNT(*) FILTER (WHERE status = 'completed') AS completed_episodes,
		       COALESCE(SUM(duration) FILTER (WHERE status = 'completed'), 0) AS total_duration,
		       COALESCE(SUM(file_size) FILTER (WHERE status = 'completed'), 0) AS total_size
		FROM episodes`)
	return stats, err
}
