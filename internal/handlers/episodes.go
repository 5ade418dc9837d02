package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"article-podcaster/internal/db"
	"article-podcaster/internal/pipeline"
)

type generateEpisodeRequest struct {
	ArticleID   int64  `json:"articleId"`
	TTSProvider string `json:"ttsProvider"`
}

type generateEpisodeResponse struct {
	EpisodeID int64  `json:"episodeId"`
	Status    string `json:"status"`
}

// GenerateEpisode runs the pipeline synchronously for one article. Failures
// after the processing transition are already recorded on the episode row by
// the generator; here they only map to a status code.
func (h *Handlers) GenerateEpisode(w http.ResponseWriter, r *http.Request) {
	var req generateEpisodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	if req.ArticleID == 0 {
		writeError(w, http.StatusBadRequest, "Article ID is required", "")
		return
	}

	result, err := h.generator.Generate(r.Context(), req.ArticleID, req.TTSProvider)
	if err != nil {
		log.Printf("Error generating episode for article %d: %v", req.ArticleID, err)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Article or episode not found", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to generate episode", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, generateEpisodeResponse{EpisodeID: result.EpisodeID, Status: result.Status})
}

type batchGenerateRequest struct {
	ArticleIDs []int64 `json:"articleIds"`
}

type batchGenerateResponse struct {
	Total   int                    `json:"total"`
	Success int                    `json:"success"`
	Failed  int                    `json:"failed"`
	Results []pipeline.BatchResult `json:"results"`
}

func (h *Handlers) BatchGenerateEpisodes(w http.ResponseWriter, r *http.Request) {
	var req batchGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	if len(req.ArticleIDs) == 0 {
		writeError(w, http.StatusBadRequest, "Article IDs array is required", "")
		return
	}

	results := h.generator.GenerateBatch(r.Context(), req.ArticleIDs)

	resp := batchGenerateResponse{Total: len(results), Results: results}
	for _, result := range results {
		if result.Success {
			resp.Success++
		} else {
			resp.Failed++
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
