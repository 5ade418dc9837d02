package handlers

import (
	"net/http"

	"article-podcaster/internal/db"
)

type statisticsResponse struct {
	TotalArticles     int   `json:"total_articles"`
	TotalEpisodes     int   `json:"total_episodes"`
	CompletedEpisodes int   `json:"completed_episodes"`
	TotalDuration     int   `json:"total_duration"`
	TotalSize         int64 `json:"total_size"`
}

func (h *Handlers) GetStatistics(w http.ResponseWriter, r *http.Request) {
	totalArticles, err := db.CountArticles()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch statistics", err.Error())
		return
	}

	stats, err := db.GetEpisodeStatistics()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch statistics", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, statisticsResponse{
		TotalArticles:     totalArticles,
		TotalEpisodes:     stats.TotalEpisodes,
		CompletedEpisodes: stats.CompletedEpisodes,
		TotalDuration:     stats.TotalDuration,
		TotalSize:         stats.TotalSize,
	})
}
