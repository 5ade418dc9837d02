// Package extract pulls the main content out of a web page for narration.
package extract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"article-podcaster/internal/textproc"
)

// Content is what extraction recovers from an article page. Content is
// already sanitized for TTS.
type Content struct {
	Title   string
	Content string
	Author  *string
}

// FromURL fetches the page and recovers its main article content. It fails
// when the fetch fails or the page has no extractable body.
func FromURL(rawURL string) (*Content, error) {
	article, err := readability.FromURL(rawURL, 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("content extraction failed: %w", err)
	}

	text := textproc.SanitizeForTTS(article.TextContent)
	if text == "" {
		return nil, fmt.Errorf("content extraction failed: no readable text at %s", rawURL)
	}

	title := article.Title
	if title == "" {
		title = "Untitled Article"
	}

	var author *string
	if byline := strings.TrimSpace(article.Byline); byline != "" {
		author = &byline
	}

	return &Content{Title: title, Content: text, Author: author}, nil
}

// ValidateURL accepts only absolute http(s) URLs.
func ValidateURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
