package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const elevenLabsBaseURL = "https://api.elevenlabs.io/v1"

// ElevenLabs calls the ElevenLabs text-to-speech API. Unlike Google, the API
// key travels in a custom header and the response body is raw MP3 bytes.
type ElevenLabs struct {
	apiKey  string
	voiceID string
	modelID string
	baseURL string
	client  *http.Client
}

func NewElevenLabs(apiKey, voiceID string) *ElevenLabs {
	return &ElevenLabs{
		apiKey:  apiKey,
		voiceID: voiceID,
		modelID: "eleven_multilingual_v2",
		baseURL: elevenLabsBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (e *ElevenLabs) Name() string { return ProviderElevenLabs }

func (e *ElevenLabs) MaxChunkBytes() int { return 5000 }

type elevenLabsRequest struct {
	Text          string `json:"text"`
	ModelID       string `json:"model_id"`
	VoiceSettings struct {
		Stability       float64 `json:"stability"`
		SimilarityBoost float64 `json:"similarity_boost"`
		Style           float64 `json:"style"`
		UseSpeakerBoost bool    `json:"use_speaker_boost"`
	} `json:"voice_settings"`
}

func (e *ElevenLabs) Synthesize(ctx context.Context, text string) ([]byte, error) {
	reqBody := elevenLabsRequest{Text: text, ModelID: e.modelID}
	reqBody.VoiceSettings.Stability = 0.5
	reqBody.VoiceSettings.SimilarityBoost = 0.75
	reqBody.VoiceSettings.UseSpeakerBoost = true

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", e.baseURL, e.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Provider: ProviderElevenLabs, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
