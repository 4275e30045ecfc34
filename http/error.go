package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/samarthsinh2660/fluentify"
)

// StatusError is returned for non-OK responses. Its text is shown to the
// user as the generation error and carries only the status code; the
// server's message is kept for logs.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

// LogValue includes the server's message when the error is logged.
func (e *StatusError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("status", e.Code),
		slog.String("message", e.Message),
	)
}

// Unwrap maps authentication failures to [fluentify.ErrUnauthorized].
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden {
		return fluentify.ErrUnauthorized
	}
	return nil
}

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

func parseStatusError(resp *http.Response) error {
	e := &StatusError{Code: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return e
	}
	var env envelope
	if json.Unmarshal(body, &env) != nil {
		return e
	}
	if env.Error != nil && env.Error.Message != "" {
		e.Message = env.Error.Message
	} else {
		e.Message = env.Message
	}
	return e
}
