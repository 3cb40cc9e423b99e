package voice

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"ttspipe/config"
)

// OpenAI synthesizes through the official speech endpoint.
type OpenAI struct {
	Client *openai.Client

	Model          string
	Voice          string
	ResponseFormat string
}

// NewOpenAI builds the client. A configured ApiUrl replaces the
// default base URL (https://api.openai.com/v1).
func NewOpenAI(settings config.TTSSettings) *OpenAI {
	cfg := openai.DefaultConfig(settings.ApiKey)
	if settings.ApiUrl != "" {
		cfg.BaseURL = settings.ApiUrl
	}
	if settings.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: settings.Timeout}
	}

	voice := settings.Voice
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}

	return &OpenAI{
		Client:         openai.NewClientWithConfig(cfg),
		Model:          settings.Model,
		Voice:          voice,
		ResponseFormat: settings.ResponseFormat,
	}
}

func (api *OpenAI) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	resp, err := api.Client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(api.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(api.Voice),
		ResponseFormat: openai.SpeechResponseFormat(api.ResponseFormat),
	})
	if err != nil {
		return nil, fromOpenAIError(err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, &APIError{Provider: config.ProviderOpenAI, Err: err}
	}
	return audio, nil
}

func fromOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			Provider:   config.ProviderOpenAI,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &APIError{
			Provider:   config.ProviderOpenAI,
			StatusCode: reqErr.HTTPStatusCode,
			Err:        err,
		}
	}

	return &APIError{Provider: config.ProviderOpenAI, Err: err}
}
