package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrGeneric is the message used when a failed response carries no usable
// body.
var ErrGeneric = errors.New("the server could not complete the request")

// maxRawMessage caps raw response text surfaced to the user.
const maxRawMessage = 200

// APIError is a non-2xx response from the song API.
type APIError struct {
	Status  int
	Message string
	generic bool
}

func (e *APIError) Error() string {
	if e.generic {
		return fmt.Sprintf("%s (HTTP %d)", ErrGeneric, e.Status)
	}
	return e.Message
}

// Unwrap returns ErrGeneric when the response body was empty.
func (e *APIError) Unwrap() error {
	if e.generic {
		return ErrGeneric
	}
	return nil
}

// TransportError wraps a failure to reach the server or to read its answer.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// parseAPIError builds an APIError from a failed response body. The
// server's {"error": "..."} wins, then the raw text, then ErrGeneric.
func parseAPIError(status int, body []byte) *APIError {
	var structured struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &structured); err == nil {
		if msg := strings.TrimSpace(structured.Error); msg != "" {
			return &APIError{Status: status, Message: msg}
		}
	}

	if raw := strings.TrimSpace(string(body)); raw != "" && utf8.ValidString(raw) {
		return &APIError{Status: status, Message: truncate(raw, maxRawMessage)}
	}

	return &APIError{Status: status, Message: ErrGeneric.Error(), generic: true}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
