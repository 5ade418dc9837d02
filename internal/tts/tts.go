// Package tts hides the request and response shape differences between
// text-to-speech providers behind one synthesis contract.
package tts

import (
	"context"
	"errors"
	"fmt"
)

const (
	ProviderGoogle     = "google"
	ProviderElevenLabs = "elevenlabs"
)

// Synthesizer converts one chunk of text into encoded audio. One call issues
// one outbound request; callers chunk the text and concatenate the results.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	Name() string
	// MaxChunkBytes is the provider's per-request payload ceiling.
	MaxChunkBytes() int
}

var ErrUnknownProvider = errors.New("unknown TTS provider")

// New returns the adapter for the named provider, configured with the
// decrypted API key and the voice selector from settings.
func New(provider, apiKey, voice string) (Synthesizer, error) {
	switch provider {
	case ProviderGoogle:
		return NewGoogle(apiKey, voice), nil
	case ProviderElevenLabs:
		return NewElevenLabs(apiKey, voice), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}

// APIError carries the provider's raw error payload for diagnostics.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s TTS API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}
