package upstream

import (
	"context"
	"errors"
)

var (
	// ErrTransport is returned when the remote API could not be reached.
	ErrTransport = errors.New("network error")
	// ErrTimeout is returned when the remote API did not answer within the client timeout.
	ErrTimeout = errors.New("request timed out")
	// ErrEmptyResponse is returned when the remote API answered with an empty body.
	ErrEmptyResponse = errors.New("empty response from server")
	// ErrInvalidResponse is returned when the body is not valid JSON or not the expected shape.
	ErrInvalidResponse = errors.New("invalid server response")
)

// fallbackMessage is used when a failed response carries no message of its own.
const fallbackMessage = "API request failed"

// APIError is an application-level failure: a non-2xx status or an explicit success=false body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Kind classifies err into a short label used for metrics and logs.
func Kind(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &apiErr):
		return "api"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrEmptyResponse):
		return "empty"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "transport"
	}
}

// Message returns the text to surface to the admin for err.
func Message(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, ErrTimeout):
		return "The server took too long to respond. Please try again."
	case errors.Is(err, ErrEmptyResponse):
		return ErrEmptyResponse.Error()
	case errors.Is(err, ErrInvalidResponse):
		return ErrInvalidResponse.Error()
	case errors.Is(err, ErrTransport):
		return "Could not reach the server. Check your connection and try again."
	default:
		return err.Error()
	}
}
