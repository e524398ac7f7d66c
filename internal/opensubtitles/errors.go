package opensubtitles

import (
	"errors"
	"fmt"
	"strings"
)

// Session contract violations. None of these involve a network call.
var (
	ErrNotAuthenticated     = errors.New("opensubtitles: session is not authenticated")
	ErrSessionClosed        = errors.New("opensubtitles: session is closed")
	ErrAlreadyAuthenticated = errors.New("opensubtitles: session is already authenticated")
	ErrInvalidFingerprint   = errors.New("opensubtitles: fingerprint requires a positive size and a digest")
)

// NoStatusKeyError reports an envelope without a status field.
type NoStatusKeyError struct {
	Method   string
	Envelope any
}

func (e *NoStatusKeyError) Error() string {
	return fmt.Sprintf("opensubtitles: %s answer has no status: %v", e.Method, e.Envelope)
}

// BadStatusError reports a status other than "200 OK".
type BadStatusError struct {
	Method string
	Status any
}

func (e *BadStatusError) Error() string {
	return fmt.Sprintf("opensubtitles: %s answered with status %v", e.Method, e.Status)
}

// NoTokenKeyError reports a successful login answer without a token.
type NoTokenKeyError struct {
	Envelope any
}

func (e *NoTokenKeyError) Error() string {
	return fmt.Sprintf("opensubtitles: LogIn answer has no token: %v", e.Envelope)
}

// NoDataKeyError reports a successful search answer without data.
type NoDataKeyError struct {
	Envelope any
}

func (e *NoDataKeyError) Error() string {
	return fmt.Sprintf("opensubtitles: SearchSubtitles answer has no data: %v", e.Envelope)
}

// Transport operations reported by TransportError.Op.
const (
	OpEncode     = "encode"
	OpSend       = "send"
	OpStatus     = "status"
	OpRead       = "read"
	OpDecompress = "decompress"
	OpDecode     = "decode"
)

// TransportError reports a failure below the RPC layer: the request never
// produced a decodable answer.
type TransportError struct {
	Method     string
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "opensubtitles: %s %s failed", e.Method, e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, ": %s", e.Body)
	}
	return b.String()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FaultError carries a fault reported by the remote procedure.
type FaultError struct {
	Method  string
	Code    int
	Message string
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("opensubtitles: %s fault %d: %s", e.Method, e.Code, e.Message)
}
