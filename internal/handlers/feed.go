package handlers

import (
	"log"
	"net/http"

	"article-podcaster/internal/db"
	"article-podcaster/internal/feed"
)

func (h *Handlers) GetRSSFeed(w http.ResponseWriter, r *http.Request) {
	settings, err := db.GetSettings()
	if err != nil {
		log.Printf("Error getting settings for feed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate RSS feed", "")
		return
	}

	episodes, err := db.GetCompletedEpisodesWithArticles()
	if err != nil {
		log.Printf("Error getting episodes for feed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate RSS feed", "")
		return
	}

	rss := feed.GenerateRSS(&settings, episodes, baseURL(r))

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "s-maxage=300, stale-while-revalidate")
	w.Write([]byte(rss))
}
