// Package pipeline drives an episode through sanitize, chunk, synthesize,
// concatenate, upload and finalize, recording every failure on the episode
// row before returning it.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"article-podcaster/internal/db"
	"article-podcaster/internal/models"
	"article-podcaster/internal/storage"
	"article-podcaster/internal/textproc"
	"article-podcaster/internal/tts"
	"article-podcaster/internal/vault"
)

// newSynthesizer is swapped out in tests.
var newSynthesizer = tts.New

// audioBytesPerSecond approximates MP3 at 128 kbps. Duration derived from it
// is an estimate, not a measurement of the audio stream.
const audioBytesPerSecond = 16000

// chunkTimeout bounds a single provider call so a hung request cannot block
// a generation slot indefinitely.
const chunkTimeout = 60 * time.Second

type Generator struct {
	vault *vault.Vault
	store storage.Store
}

func New(v *vault.Vault, store storage.Store) *Generator {
	return &Generator{vault: v, store: store}
}

type Result struct {
	EpisodeID int64
	Status    string
}

// Generate runs the full pipeline for one article. providerOverride selects
// the TTS provider for this run; empty means the settings default. Once the
// episode has been marked processing, any failure is written back to its
// error_message before being returned, so status and failure detail never
// diverge.
func (g *Generator) Generate(ctx context.Context, articleID int64, providerOverride string) (*Result, error) {
	article, err := db.GetArticleByID(articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get article %d: %w", articleID, err)
	}

	settings, err := db.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	provider := providerOverride
	if provider == "" {
		provider = settings.DefaultTTSProvider
	}
	if provider == "" {
		return nil, fmt.Errorf("no TTS provider configured")
	}

	episode, err := db.GetEpisodeByArticleID(articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get episode for article %d: %w", articleID, err)
	}

	if err := db.UpdateEpisodeStatus(episode.ID, db.StatusProcessing); err != nil {
		return nil, fmt.Errorf("failed to update episode status to processing: %w", err)
	}

	if err := g.run(ctx, &article, &settings, episode.ID, provider); err != nil {
		if dbErr := db.UpdateEpisodeFailed(episode.ID, err.Error()); dbErr != nil {
			log.Printf("failed to record episode %d failure: %v", episode.ID, dbErr)
		}
		return nil, err
	}

	return &Result{EpisodeID: episode.ID, Status: db.StatusCompleted}, nil
}

func (g *Generator) run(ctx context.Context, article *models.Article, settings *models.Settings, episodeID int64, provider string) error {
	ciphertext := settings.EncryptedKey(provider)
	if ciphertext == "" {
		return fmt.Errorf("no API key configured for provider %s", provider)
	}

	apiKey, err := g.vault.Decrypt(ciphertext)
	if err != nil {
		return fmt.Errorf("failed to decrypt %s API key: %w", provider, err)
	}

	synth, err := newSynthesizer(provider, apiKey, settings.VoiceFor(provider))
	if err != nil {
		return err
	}

	text := textproc.SanitizeForTTS(article.Content)
	chunks := textproc.SplitIntoChunks(text, synth.MaxChunkBytes())
	if len(chunks) == 0 {
		return fmt.Errorf("article %d has no narratable content", article.ID)
	}

	// Chunks are synthesized one at a time, in order. Providers rate-limit
	// per request, and concatenation order must match the text.
	var audio bytes.Buffer
	for i, chunk := range chunks {
		part, err := g.synthesizeChunk(ctx, synth, chunk)
		if err != nil {
			return fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		audio.Write(part)
	}

	fileSize := int64(audio.Len())
	duration := int(fileSize / audioBytesPerSecond)

	fileName := fmt.Sprintf("episode-%s.mp3", uuid.NewString())
	audioURL, err := g.store.Upload(ctx, fileName, audio.Bytes(), "audio/mpeg")
	if err != nil {
		return fmt.Errorf("failed to upload audio: %w", err)
	}

	if err := db.UpdateEpisodeCompleted(episodeID, audioURL, duration, fileSize, provider); err != nil {
		return fmt.Errorf("failed to finalize episode: %w", err)
	}

	log.Printf("Episode %d completed: %d chunks, %d bytes, ~%ds", episodeID, len(chunks), fileSize, duration)
	return nil
}

func (g *Generator) synthesizeChunk(ctx context.Context, synth tts.Synthesizer, chunk string) ([]byte, error) {
	chunkCtx, cancel := context.WithTimeout(ctx, chunkTimeout)
	defer cancel()
	return synth.Synthesize(chunkCtx, chunk)
}
