package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vidgallery/internal/client/models"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrBadResponse = errors.New("bad response from server")
)

// APIError is a logical failure reported by the server in the envelope.
type APIError struct {
	Op   string
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: server returned code %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s (code %d)", e.Op, e.Msg, e.Code)
}

// Check returns an *APIError when env carries a non-zero code.
func Check[T any](op string, env models.Envelope[T]) error {
	if env.OK() {
		return nil
	}
	return &APIError{Op: op, Code: env.Code, Msg: env.Msg}
}
