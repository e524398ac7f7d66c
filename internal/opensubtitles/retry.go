package opensubtitles

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
)

// Backoff bounds for callers that retry catalog calls.
const (
	InitialBackoff = 2 * time.Second
	MaxBackoff     = 60 * time.Second
)

// SleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NextBackoff doubles d within [InitialBackoff, MaxBackoff].
func NextBackoff(d time.Duration) time.Duration {
	if d < InitialBackoff {
		return InitialBackoff
	}
	d *= 2
	if d > MaxBackoff {
		return MaxBackoff
	}
	return d
}

// IsRetriable reports whether err represents a transient condition that
// a caller may retry: timeouts, refused or reset connections, rate limits,
// and gateway errors. Faults, envelope errors, and session contract
// violations are never retriable.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var fault *FaultError
	if errors.As(err, &fault) {
		return false
	}
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		return false
	}
	switch transportErr.Op {
	case OpStatus:
		switch transportErr.StatusCode {
		case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	case OpSend, OpRead:
	default:
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	message := strings.ToLower(err.Error())
	for _, token := range []string{
		"timeout",
		"connection reset",
		"connection refused",
		"temporary failure",
		"awaiting headers",
		"eof",
	} {
		if strings.Contains(message, token) {
			return true
		}
	}
	return false
}
