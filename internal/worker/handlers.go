package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"article-podcaster/internal/db"
	"article-podcaster/internal/pipeline"
	"article-podcaster/pkg/tasks"
)

type TaskHandler struct {
	generator   *pipeline.Generator
	asynqClient tasks.TaskEnqueuer
}

func NewTaskHandler(generator *pipeline.Generator, client tasks.TaskEnqueuer) *TaskHandler {
	return &TaskHandler{generator: generator, asynqClient: client}
}

func (h *TaskHandler) HandleGenerateEpisodeTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.GenerateEpisodeTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	log.Printf("Generating episode for article %d", p.ArticleID)

	result, err := h.generator.Generate(ctx, p.ArticleID, p.TTSProvider)
	if err != nil {
		// The generator has already recorded the failure on the episode.
		return fmt.Errorf("failed to generate episode for article %d: %w", p.ArticleID, err)
	}

	log.Printf("Successfully generated episode %d for article %d", result.EpisodeID, p.ArticleID)
	return nil
}

// HandleRetryFailedEpisodesTask re-enqueues a generation task for every
// failed episode. The scheduler fires it periodically.
func (h *TaskHandler) HandleRetryFailedEpisodesTask(ctx context.Context, t *asynq.Task) error {
	episodes, err := db.GetFailedEpisodes()
	if err != nil {
		return fmt.Errorf("failed to get failed episodes: %w", err)
	}

	for _, episode := range episodes {
		task, err := tasks.NewGenerateEpisodeTask(episode.ArticleID, "")
		if err != nil {
			log.Printf("failed to create generate task for article %d: %v", episode.ArticleID, err)
			continue
		}

		if _, err := h.asynqClient.Enqueue(task); err != nil {
			log.Printf("failed to enqueue generate task for article %d: %v", episode.ArticleID, err)
			continue
		}
	}

	log.Printf("Re-enqueued %d failed episodes", len(episodes))
	return nil
}
