package models

import "time"

type Episode struct {
	ID           int64      `db:"id" json:"id"`
	ArticleID    int64      `db:"article_id" json:"article_id"`
	AudioURL     string     `db:"audio_url" json:"audio_url"`
	Duration     int        `db:"duration" json:"duration"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	Status       string     `db:"status" json:"status"`
	TTSProvider  string     `db:"tts_provider" json:"tts_provider"`
	ErrorMessage *string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	CompletedAt  *time.Time `db:"completed_at" json:"completed_at"`
}

// EpisodeWithArticle joins an episode with its source article for the feed.
type EpisodeWithArticle struct {
	Episode
	ArticleTitle  string  `db:"article_title" json:"article_title"`
	ArticleURL    *string `db:"article_url" json:"article_url"`
	ArticleAuthor *string `db:"article_author" json:"article_author"`
}
