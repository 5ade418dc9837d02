// Package feed renders the published episodes as a podcast RSS document.
package feed

import (
	"fmt"
	"strings"
	"time"

	"article-podcaster/internal/models"
)

// EscapeXML escapes the five XML-reserved characters in untrusted text.
// Ampersand goes first so already-produced entities are not double-escaped.
func EscapeXML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	text = strings.ReplaceAll(text, `"`, "&quot;")
	text = strings.ReplaceAll(text, "'", "&apos;")
	return text
}

// FormatDuration renders seconds as zero-padded HH:MM:SS for itunes:duration.
func FormatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// GenerateRSS renders the completed episodes, newest first, as RSS 2.0 with
// the itunes podcast extensions. Every field that originates from articles or
// settings passes through EscapeXML.
func GenerateRSS(settings *models.Settings, episodes []models.EpisodeWithArticle, appURL string) string {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd" xmlns:content="http://purl.org/rss/1.0/modules/content/">
  <channel>
`)
	fmt.Fprintf(&b, "    <title>%s</title>\n", EscapeXML(settings.PodcastTitle))
	fmt.Fprintf(&b, "    <link>%s</link>\n", EscapeXML(appURL))
	fmt.Fprintf(&b, "    <description>%s</description>\n", EscapeXML(settings.PodcastDescription))
	b.WriteString("    <language>fr-FR</language>\n")
	fmt.Fprintf(&b, "    <itunes:author>%s</itunes:author>\n", EscapeXML(settings.PodcastAuthor))
	fmt.Fprintf(&b, "    <itunes:summary>%s</itunes:summary>\n", EscapeXML(settings.PodcastDescription))
	b.WriteString("    <itunes:owner>\n")
	fmt.Fprintf(&b, "      <itunes:name>%s</itunes:name>\n", EscapeXML(settings.PodcastAuthor))
	b.WriteString("    </itunes:owner>\n")

	if settings.PodcastCoverURL != nil && *settings.PodcastCoverURL != "" {
		cover := EscapeXML(*settings.PodcastCoverURL)
		fmt.Fprintf(&b, "    <itunes:image href=\"%s\" />\n", cover)
		b.WriteString("    <image>\n")
		fmt.Fprintf(&b, "      <url>%s</url>\n", cover)
		fmt.Fprintf(&b, "      <title>%s</title>\n", EscapeXML(settings.PodcastTitle))
		fmt.Fprintf(&b, "      <link>%s</link>\n", EscapeXML(appURL))
		b.WriteString("    </image>\n")
	}

	b.WriteString("    <itunes:category text=\"Technology\" />\n")
	b.WriteString("    <itunes:explicit>false</itunes:explicit>\n")

	for _, episode := range episodes {
		pubDate := time.Now()
		if episode.CompletedAt != nil {
			pubDate = *episode.CompletedAt
		}

		description := fmt.Sprintf("Article: %s", episode.ArticleTitle)
		if episode.ArticleAuthor != nil && *episode.ArticleAuthor != "" {
			description += fmt.Sprintf(" par %s", *episode.ArticleAuthor)
		}

		author := settings.PodcastAuthor
		if episode.ArticleAuthor != nil && *episode.ArticleAuthor != "" {
			author = *episode.ArticleAuthor
		}

		link := appURL
		if episode.ArticleURL != nil && *episode.ArticleURL != "" {
			link = *episode.ArticleURL
		}

		b.WriteString("    <item>\n")
		fmt.Fprintf(&b, "      <title>%s</title>\n", EscapeXML(episode.ArticleTitle))
		fmt.Fprintf(&b, "      <link>%s</link>\n", EscapeXML(link))
		fmt.Fprintf(&b, "      <guid isPermaLink=\"false\">%d</guid>\n", episode.ID)
		fmt.Fprintf(&b, "      <pubDate>%s</pubDate>\n", pubDate.Format(time.RFC1123Z))
		fmt.Fprintf(&b, "      <description>%s</description>\n", EscapeXML(description))
		fmt.Fprintf(&b, "      <enclosure url=\"%s\" length=\"%d\" type=\"audio/mpeg\" />\n", EscapeXML(episode.AudioURL), episode.FileSize)
		fmt.Fprintf(&b, "      <itunes:duration>%s</itunes:duration>\n", FormatDuration(episode.Duration))
		b.WriteString("      <itunes:explicit>false</itunes:explicit>\n")
		fmt.Fprintf(&b, "      <itunes:author>%s</itunes:author>\n", EscapeXML(author))
		b.WriteString("    </item>\n")
	}

	b.WriteString("  </channel>\n</rss>\n")
	return b.String()
}
