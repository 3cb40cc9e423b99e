package voice

import (
	"context"
	"errors"
	"time"

	"github.com/haguro/elevenlabs-go"

	"ttspipe/config"
)

const (
	defaultElevenLabsModel = "eleven_monolingual_v1"

	// the client library needs a deadline for every request
	defaultElevenLabsTimeout = 30 * time.Second
)

// ElevenLabs synthesizes through the ElevenLabs API. The client library
// turns 400, 401 and 422 responses into typed errors without their status
// code, so those come back as a Rejected APIError with StatusCode 0.
type ElevenLabs struct {
	ApiKey  string
	VoiceID string
	ModelID string
	Timeout time.Duration
}

func (api *ElevenLabs) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	timeout := api.Timeout
	if timeout <= 0 {
		timeout = defaultElevenLabsTimeout
	}
	model := api.ModelID
	if model == "" {
		model = defaultElevenLabsModel
	}

	client := elevenlabs.NewClient(ctx, api.ApiKey, timeout)

	ttsReq := elevenlabs.TextToSpeechRequest{
		Text:    text,
		ModelID: model,
	}
	audio, err := client.TextToSpeech(api.VoiceID, ttsReq)
	if err != nil {
		return nil, fromElevenLabsError(err)
	}

	return audio, nil
}

func fromElevenLabsError(err error) error {
	var apiErr *elevenlabs.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Detail.Message
		if message == "" {
			message = apiErr.Detail.Status
		}
		return &APIError{Provider: config.ProviderElevenLabs, Message: message, Rejected: true, Err: err}
	}

	var valErr *elevenlabs.ValidationError
	if errors.As(err, &valErr) {
		message := "validation error"
		if valErr.Detail != nil && len(*valErr.Detail) > 0 {
			message = (*valErr.Detail)[0].Msg
		}
		return &APIError{Provider: config.ProviderElevenLabs, Message: message, Rejected: true, Err: err}
	}

	return &APIError{Provider: config.ProviderElevenLabs, Err: err}
}
