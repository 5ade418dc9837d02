package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"article-podcaster/internal/db"
	"article-podcaster/internal/extract"
	"article-podcaster/internal/models"
	"article-podcaster/internal/storage"
)

type addArticleRequest struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Author     string `json:"author"`
	SourceType string `json:"source_type"`
}

type addArticleResponse struct {
	ArticleID int64  `json:"articleId"`
	Title     string `json:"title"`
}

// AddArticle creates an article either from a URL (content is extracted and
// sanitized) or from raw text (editable afterwards). A pending episode is
// created alongside it.
func (h *Handlers) AddArticle(w http.ResponseWriter, r *http.Request) {
	var req addArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	if req.SourceType == models.SourceTypeText || (req.URL == "" && req.Content != "") {
		h.addTextArticle(w, req)
		return
	}

	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "URL is required", "")
		return
	}
	if !extract.ValidateURL(req.URL) {
		writeError(w, http.StatusBadRequest, "Invalid URL format", "")
		return
	}

	// Same URL twice returns the existing article instead of refetching.
	if existing, err := db.GetArticleByURL(req.URL); err == nil {
		writeJSON(w, http.StatusOK, addArticleResponse{ArticleID: existing.ID, Title: existing.Title})
		return
	}

	extracted, err := extract.FromURL(req.URL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add article", err.Error())
		return
	}

	if utf8.RuneCountInString(extracted.Content) > models.MaxContentLength {
		writeError(w, http.StatusBadRequest, "Article too long", "Maximum 50,000 characters allowed")
		return
	}

	url := req.URL
	article, err := db.CreateArticle(&url, extracted.Title, extracted.Content, extracted.Author, models.SourceTypeURL, false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add article", err.Error())
		return
	}

	if _, err := db.CreateEpisode(article.ID, "google"); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create episode", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, addArticleResponse{ArticleID: article.ID, Title: article.Title})
}

func (h *Handlers) addTextArticle(w http.ResponseWriter, req addArticleRequest) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		writeError(w, http.StatusBadRequest, "Title and content are required", "")
		return
	}
	if utf8.RuneCountInString(content) > models.MaxContentLength {
		writeError(w, http.StatusBadRequest, "Article too long", "Maximum 50,000 characters allowed")
		return
	}

	var author *string
	if a := strings.TrimSpace(req.Author); a != "" {
		author = &a
	}

	// Stored as entered; the pipeline sanitizes at generation time.
	article, err := db.CreateArticle(nil, title, content, author, models.SourceTypeText, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add article", err.Error())
		return
	}

	if _, err := db.CreateEpisode(article.ID, "google"); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create episode", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, addArticleResponse{ArticleID: article.ID, Title: article.Title})
}

type articleWithEpisode struct {
	models.Article
	Episode *models.Episode `json:"episode,omitempty"`
}

func (h *Handlers) ListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := db.GetAllArticles()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list articles", err.Error())
		return
	}

	episodes, err := db.GetAllEpisodes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list articles", err.Error())
		return
	}

	byArticle := make(map[int64]models.Episode, len(episodes))
	for _, episode := range episodes {
		byArticle[episode.ArticleID] = episode
	}

	out := make([]articleWithEpisode, 0, len(articles))
	for _, article := range articles {
		item := articleWithEpisode{Article: article}
		if episode, ok := byArticle[article.ID]; ok {
			episode := episode
			item.Episode = &episode
		}
		out = append(out, item)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"articles": out})
}

type updateArticleRequest struct {
	ArticleID int64   `json:"articleId"`
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Author    *string `json:"author"`
}

func (h *Handlers) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var req updateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	if req.ArticleID == 0 {
		writeError(w, http.StatusBadRequest, "Article ID is required", "")
		return
	}

	article, err := db.GetArticleByID(req.ArticleID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Article not found", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update article", err.Error())
		return
	}

	if !article.IsEditable {
		writeError(w, http.StatusForbidden, "Article is not editable", "Only text-based articles can be edited")
		return
	}

	updated := false
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		article.Title = strings.TrimSpace(*req.Title)
		updated = true
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) != "" {
		content := strings.TrimSpace(*req.Content)
		if utf8.RuneCountInString(content) > models.MaxContentLength {
			writeError(w, http.StatusBadRequest, "Article too long", "Maximum 50,000 characters allowed")
			return
		}
		article.Content = content
		updated = true
	}
	if req.Author != nil {
		if a := strings.TrimSpace(*req.Author); a != "" {
			article.Author = &a
		} else {
			article.Author = nil
		}
		updated = true
	}

	if !updated {
		writeError(w, http.StatusBadRequest, "No updates provided", "")
		return
	}

	if err := db.UpdateArticle(article.ID, article.Title, article.Content, article.Author); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update article", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type deleteArticleRequest struct {
	ArticleID int64 `json:"articleId"`
}

// DeleteArticle removes the article and its episode. The audio object in
// storage is deleted best-effort: a storage failure is logged and the row
// deletion proceeds anyway.
func (h *Handlers) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	var req deleteArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	if req.ArticleID == 0 {
		writeError(w, http.StatusBadRequest, "Article ID is required", "")
		return
	}

	if episode, err := db.GetEpisodeByArticleID(req.ArticleID); err == nil && episode.AudioURL != "" {
		fileName := storage.FileNameFromURL(episode.AudioURL)
		if err := h.store.Delete(r.Context(), fileName); err != nil {
			log.Printf("failed to delete audio %s for article %d: %v", fileName, req.ArticleID, err)
		}
	}

	if err := db.DeleteArticle(req.ArticleID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete article", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
