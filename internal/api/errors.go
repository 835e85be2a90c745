package api

import (
	"encoding/json"
	"fmt"
)

// Error is a non-2xx backend response. Message is the backend-supplied text
// and is surfaced to the user verbatim.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

func newError(statusCode int, raw []byte) *Error {
	var body struct {
		Message string `json:"message"`
	}
	// Best effort: an unparsable error body falls back to the status line.
	_ = json.Unmarshal(raw, &body)
	return &Error{StatusCode: statusCode, Message: body.Message}
}
