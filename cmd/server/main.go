package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"article-podcaster/internal/db"
	"article-podcaster/internal/handlers"
	"article-podcaster/internal/middleware"
	"article-podcaster/internal/pipeline"
	"article-podcaster/internal/storage"
	"article-podcaster/internal/vault"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func newRouter(h *handlers.Handlers) *mux.Router {
	// Generation is expensive against the TTS providers; keep it slow.
	generateLimiter := middleware.NewRateLimiter(rate.Limit(0.5), 3)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/articles", h.AddArticle).Methods(http.MethodPost)
	api.HandleFunc("/articles", h.ListArticles).Methods(http.MethodGet)
	api.HandleFunc("/articles", h.UpdateArticle).Methods(http.MethodPut)
	api.HandleFunc("/articles", h.DeleteArticle).Methods(http.MethodDelete)
	api.Handle("/episodes/generate", generateLimiter.Middleware(http.HandlerFunc(h.GenerateEpisode))).Methods(http.MethodPost)
	api.Handle("/episodes/batch-generate", generateLimiter.Middleware(http.HandlerFunc(h.BatchGenerateEpisodes))).Methods(http.MethodPost)
	api.HandleFunc("/settings", h.GetSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", h.UpdateSettings).Methods(http.MethodPut)
	api.HandleFunc("/statistics", h.GetStatistics).Methods(http.MethodGet)
	r.HandleFunc("/feed/rss.xml", h.GetRSSFeed).Methods(http.MethodGet)
	return r
}

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()

	v, err := vault.New(os.Getenv("ENCRYPTION_KEY"))
	if err != nil {
		log.Fatalf("could not initialize vault: %v", err)
	}

	store, err := storage.NewR2FromEnv(context.Background())
	if err != nil {
		log.Fatalf("could not initialize object storage: %v", err)
	}

	generator := pipeline.New(v, store)
	h := handlers.New(generator, v, store)

	r := newRouter(h)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on :%s (commit: %s)", port, CommitSHA)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
