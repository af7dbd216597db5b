package apiclient

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrorKind classifies a failed backend call.
type ErrorKind string

const (
	// KindTransport means the request never produced a response.
	KindTransport ErrorKind = "TRANSPORT"
	// KindRemote means the backend answered with a non-2xx status.
	KindRemote ErrorKind = "REMOTE"
	// KindDecode means a 2xx body did not match the expected shape.
	KindDecode ErrorKind = "DECODE"
)

const decodeMessage = "unexpected response from server"

// Error is the single normalized failure returned by every Client method.
// Error() yields only the human-readable message so callers can show it as is.
type Error struct {
	Kind    ErrorKind
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// remoteMessage extracts the "message" field of an error body. The backend
// sends either a string or, for validation failures, a list of strings.
func remoteMessage(body []byte, fallback string) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Message) == 0 {
		return fallback
	}

	var single string
	if err := json.Unmarshal(payload.Message, &single); err == nil {
		if strings.TrimSpace(single) == "" {
			return fallback
		}
		return single
	}

	var many []string
	if err := json.Unmarshal(payload.Message, &many); err == nil && len(many) > 0 {
		return strings.Join(many, ", ")
	}

	return fallback
}
