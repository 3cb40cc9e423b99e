package voice

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/buger/jsonparser"
)

// longest raw error body echoed back to the user
const maxErrorMessage = 200

// APIError is a failed synthesis call. StatusCode is zero when the
// request never got an HTTP response (transport failure), unless
// Rejected is set.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string

	// Rejected marks an error response from a provider whose client
	// library does not expose the status code.
	Rejected bool

	Err error
}

func (e *APIError) Error() string {
	if e.Transport() {
		return fmt.Sprintf("%s synthesis request failed; %v", e.Provider, e.Err)
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s synthesis rejected; %s", e.Provider, e.Message)
	}

	status := fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		return fmt.Sprintf("%s synthesis returned %s; %s", e.Provider, strings.TrimSpace(status), e.Message)
	}
	return fmt.Sprintf("%s synthesis returned %s", e.Provider, strings.TrimSpace(status))
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Transport reports whether the failure happened before any status was received.
func (e *APIError) Transport() bool {
	return e.StatusCode == 0 && !e.Rejected
}

// errorMessage pulls a human readable message out of an error body.
// There is no fixed error schema, so a few common shapes are tried
// before falling back to the raw text.
func errorMessage(body []byte) string {
	paths := [][]string{
		{"error", "message"},
		{"message"},
		{"detail"},
		{"error"},
	}
	for _, path := range paths {
		if msg, err := jsonparser.GetString(body, path...); err == nil && msg != "" {
			return msg
		}
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorMessage {
		msg = msg[:maxErrorMessage] + "..."
	}
	return msg
}
