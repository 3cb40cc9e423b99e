package voice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"ttspipe/config"
)

var (
	ErrEmptyText = errors.New("no text to synthesize")
)

type Synthesizer interface {
	// Synthesize converts text to speech and returns the
	// encoded audio exactly as the provider sent it.
	// One call is one request; nothing is retried.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// New builds the synthesizer selected by settings.Provider.
func New(settings config.TTSSettings) (Synthesizer, error) {
	switch settings.Provider {
	case config.ProviderHTTP, "":
		return NewHTTP(settings), nil
	case config.ProviderOpenAI:
		return NewOpenAI(settings), nil
	case config.ProviderElevenLabs:
		return &ElevenLabs{
			ApiKey:  settings.ApiKey,
			VoiceID: settings.Voice,
			ModelID: settings.Model,
			Timeout: settings.Timeout,
		}, nil
	case config.ProviderGoogle:
		return &Google{Language: settings.Language}, nil
	default:
		return nil, fmt.Errorf("%q; %w", settings.Provider, config.ErrUnknownProvider)
	}
}

// --- utilities for this package

func hashString(input string) string {
	hash := sha256.New()
	hash.Write([]byte(input))
	return hex.EncodeToString(hash.Sum(nil))
}
