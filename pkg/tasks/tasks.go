package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeGenerateEpisode     = "episode:generate"
	TypeRetryFailedEpisodes = "episodes:retry_failed"
)

type GenerateEpisodeTaskPayload struct {
	ArticleID   int64
	TTSProvider string
}

func NewGenerateEpisodeTask(articleID int64, ttsProvider string) (*asynq.Task, error) {
	payload, err := json.Marshal(GenerateEpisodeTaskPayload{
		ArticleID:   articleID,
		TTSProvider: ttsProvider,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeGenerateEpisode, payload), nil
}

func NewRetryFailedEpisodesTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeRetryFailedEpisodes, nil), nil
}
