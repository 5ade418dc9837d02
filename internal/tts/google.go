package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const googleBaseURL = "https://texttospeech.googleapis.com/v1"

// Google calls the Cloud Text-to-Speech REST API. The API key travels as a
// query parameter, the audio comes back base64-encoded inside JSON.
type Google struct {
	apiKey       string
	voiceName    string
	languageCode string
	baseURL      string
	client       *http.Client
}

func NewGoogle(apiKey, voiceName string) *Google {
	return &Google{
		apiKey:       apiKey,
		voiceName:    voiceName,
		languageCode: "fr-FR",
		baseURL:      googleBaseURL,
		client:       &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *Google) Name() string { return ProviderGoogle }

func (g *Google) MaxChunkBytes() int { return 4500 }

type googleRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding    string   `json:"audioEncoding"`
		SpeakingRate     float64  `json:"speakingRate"`
		Pitch            float64  `json:"pitch"`
		VolumeGainDb     float64  `json:"volumeGainDb"`
		SampleRateHertz  int      `json:"sampleRateHertz"`
		EffectsProfileID []string `json:"effectsProfileId"`
	} `json:"audioConfig"`
}

type googleResponse struct {
	AudioContent string `json:"audioContent"`
}

func (g *Google) Synthesize(ctx context.Context, text string) ([]byte, error) {
	reqBody := googleRequest{}
	reqBody.Input.Text = text
	reqBody.Voice.LanguageCode = g.languageCode
	reqBody.Voice.Name = g.voiceName
	reqBody.AudioConfig.AudioEncoding = "MP3"
	reqBody.AudioConfig.SpeakingRate = 1.0
	reqBody.AudioConfig.SampleRateHertz = 44100
	reqBody.AudioConfig.EffectsProfileID = []string{"headphone-class-device"}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text:synthesize?key=%s", g.baseURL, url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Provider: ProviderGoogle, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var data googleResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if data.AudioContent == "" {
		return nil, fmt.Errorf("no audio content received from google TTS")
	}

	audio, err := base64.StdEncoding.DecodeString(data.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio content: %w", err)
	}
	return audio, nil
}
