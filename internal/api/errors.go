package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Sentinel errors for the domain-specific rejections the UI branches on.
// Everything else surfaces as a *StatusError or a plain transport error.
var (
	// ErrRateLimited maps HTTP 429 on checkout; it gets its own
	// user-facing message and the cart stays intact.
	ErrRateLimited = errors.New("too many orders, please wait a moment")

	// ErrNotFound maps HTTP 404: a stale order or session reference.
	ErrNotFound = errors.New("not found")
)

// StatusError is any other non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

func statusError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusNotFound:
		return ErrNotFound
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{Code: resp.StatusCode, Body: string(body)}
}
