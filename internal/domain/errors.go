package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrOffline means the offline path was taken and nothing usable was cached
	ErrOffline = errors.New("connectivity unavailable")
	// ErrSerialization means a payload did not match the expected shape
	ErrSerialization = errors.New("unexpected payload shape")
	// ErrEmptyResult means a well-formed response carried zero usable items
	ErrEmptyResult = errors.New("empty result")
	// ErrNotFound means the local store has no matching entity
	ErrNotFound = errors.New("not found")
)

// RemoteError is a non-2xx answer from a remote API
type RemoteError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("remote error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("remote error %d: %s", e.StatusCode, e.Message)
}

// ErrorMessage maps an error from the remote or local side to the message carried
// by a RequestState Error.
func ErrorMessage(err error) string {
	var remote *RemoteError
	switch {
	case err == nil:
		return MessageNA
	case errors.As(err, &remote):
		if IsBlankOrNA(remote.Message) {
			return MessageNA
		}
		return remote.Message
	case errors.Is(err, ErrOffline):
		return MessageNoConnection
	case errors.Is(err, ErrEmptyResult), errors.Is(err, ErrSerialization):
		return MessageNA
	}
	return err.Error()
}
