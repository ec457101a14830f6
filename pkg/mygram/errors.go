package mygram

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotConnected     = errors.New("not connected")
	ErrAlreadyConnected = errors.New("already connected")
	// ErrConnectionClosed reports an orderly close by the server mid-request.
	ErrConnectionClosed = errors.New("connection closed by server")
)

// ServerError carries a server-reported failure, i.e. an `ERROR <message>`
// response line with the prefix stripped.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// ProtocolError reports a response that matched neither the expected OK shape
// nor the ERROR shape.
type ProtocolError struct {
	Response string
}

func (e *ProtocolError) Error() string {
	resp := e.Response
	if len(resp) > 80 {
		resp = resp[:80] + "..."
	}
	return fmt.Sprintf("unexpected response format: %q", resp)
}

// IsNotFound reports whether err is the server's document-missing error.
// The protocol has no dedicated status for it; the server answers GET misses
// with an ERROR line whose message names the missing document.
func IsNotFound(err error) bool {
	var se *ServerError
	return errors.As(err, &se) && strings.Contains(strings.ToLower(se.Message), "not found")
}

// serverError extracts a *ServerError if the response is an ERROR line.
func serverError(resp string) error {
	if !isErrorResponse(resp) {
		return nil
	}
	msg := resp[len("ERROR"):]
	if len(msg) > 0 && msg[0] == ' ' {
		msg = msg[1:]
	}
	return &ServerError{Message: msg}
}

func isErrorResponse(resp string) bool {
	return len(resp) >= 5 && resp[:5] == "ERROR"
}
