package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"article-podcaster/internal/db"
	"article-podcaster/internal/pipeline"
	"article-podcaster/internal/storage"
	"article-podcaster/internal/vault"
	"article-podcaster/internal/worker"
	"article-podcaster/pkg/tasks"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

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

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer client.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			// At most three generations in flight, matching the bound on
			// the synchronous batch endpoint. Everything runs on the
			// default queue.
			Concurrency: 3,
			// Custom retry delay function for exponential backoff
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				delay := 5 * time.Minute
				maxDelay := 24 * time.Hour

				// Exponential backoff: 5min, 10min, 20min, 40min, 80min, etc.
				for i := 0; i < n; i++ {
					delay *= 2
					if delay > maxDelay {
						delay = maxDelay
						break
					}
				}

				log.Printf("Task %s failed %d times, retrying in %v", task.Type(), n+1, delay)
				return delay
			},
		},
	)

	generator := pipeline.New(v, store)
	taskHandler := worker.NewTaskHandler(generator, client)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeGenerateEpisode, taskHandler.HandleGenerateEpisodeTask)
	mux.HandleFunc(tasks.TypeRetryFailedEpisodes, taskHandler.HandleRetryFailedEpisodesTask)

	log.Printf("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
