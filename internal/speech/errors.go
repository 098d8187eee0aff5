package speech

import (
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrRemoteUnavailable = errors.New("remote unavailable")
)

// StatusCode extracts the HTTP status from an API error, or 0 when the call
// never got a response.
func StatusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}

	return 0
}

func classify(op string, err error) error {
	switch StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w: %w", op, ErrUnauthorized, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrRemoteUnavailable, err)
	}
}
