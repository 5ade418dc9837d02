package models

import "time"

// Article is a piece of source text to be narrated. URL-sourced articles
// carry the address they were extracted from; text-sourced articles are
// entered manually and stay editable.
type Article struct {
	ID         int64     `db:"id" json:"id"`
	URL        *string   `db:"url" json:"url"`
	Title      string    `db:"title" json:"title"`
	Content    string    `db:"content" json:"content"`
	Author     *string   `db:"author" json:"author"`
	SourceType string    `db:"source_type" json:"source_type"`
	IsEditable bool      `db:"is_editable" json:"is_editable"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// MaxContentLength is enforced on article content at creation and update.
const MaxContentLength = 50000

const (
	SourceTypeURL  = "url"
	SourceTypeText = "text"
)
