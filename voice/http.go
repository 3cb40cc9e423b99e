package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"ttspipe/config"
)

// error bodies are only read this far
const maxErrorBody = 64 * 1024

// SpeechRequest is the JSON body posted to the synthesis endpoint.
type SpeechRequest struct {
	Input          string `json:"input"`
	Model          string `json:"model"`
	ResponseFormat string `json:"response_format"`
	Voice          string `json:"voice,omitempty"`
}

// HTTP talks to any endpoint that accepts a SpeechRequest and
// answers with raw audio bytes.
type HTTP struct {
	URL            string
	Model          string
	ResponseFormat string
	Voice          string
	ApiKey         string

	Client *http.Client
}

func NewHTTP(settings config.TTSSettings) *HTTP {
	return &HTTP{
		URL:            settings.ApiUrl,
		Model:          settings.Model,
		ResponseFormat: settings.ResponseFormat,
		Voice:          settings.Voice,
		ApiKey:         settings.ApiKey,
		// zero timeout means none
		Client: &http.Client{Timeout: settings.Timeout},
	}
}

func (api *HTTP) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	payload, err := json.Marshal(SpeechRequest{
		Input:          text,
		Model:          api.Model,
		ResponseFormat: api.ResponseFormat,
		Voice:          api.Voice,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, api.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, &APIError{Provider: config.ProviderHTTP, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if api.ApiKey != "" {
		req.Header.Set("Authorization", "Bearer "+api.ApiKey)
	}

	client := api.Client
	if client == nil {
		client = http.DefaultClient
	}

	logrus.WithFields(logrus.Fields{
		"url":    api.URL,
		"model":  api.Model,
		"format": api.ResponseFormat,
		"chars":  len([]rune(text)),
	}).Debugln("sending synthesis request")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &APIError{Provider: config.ProviderHTTP, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			Provider:   config.ProviderHTTP,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Provider: config.ProviderHTTP, Err: err}
	}

	logrus.WithField("bytes", len(audio)).Debugln("synthesis complete")
	return audio, nil
}
