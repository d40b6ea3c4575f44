// Package upstream issues requests against the external commerce and
// marketplace APIs using the fiber HTTP client.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrNotConfigured is returned when a client is used without its host or
	// credentials configured.
	ErrNotConfigured = errors.New("upstream is not configured")
	// ErrNotFound is returned for upstream 404 responses.
	ErrNotFound = errors.New("upstream resource not found")
	// ErrUnavailable wraps transport failures such as refused connections
	// and timeouts.
	ErrUnavailable = errors.New("upstream unavailable")
)

// StatusError is returned for non-2xx upstream responses other than 404.
type StatusError struct {
	System string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded %d for %s", e.System, e.Code, e.URL)
}

// Recorder observes every upstream call.
type Recorder interface {
	ObserveUpstream(system, outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveUpstream(string, string, time.Duration) {}

// NopRecorder discards observations.
var NopRecorder Recorder = nopRecorder{}

// Request describes one upstream call.
type Request struct {
	Method   string
	URL      string
	User     string
	Password string
	Bearer   string
	Body     []byte
	Timeout  time.Duration
}

// Outcome labels used with Recorder.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeStatus   = "status"
	OutcomeError    = "error"
)

// Do performs req and returns the response body. The context is only checked
// before the request is sent; in-flight requests are bounded by req.Timeout.
func Do(ctx context.Context, system string, rec Recorder, req Request) ([]byte, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if rec == nil {
		rec = NopRecorder
	}

	var a *fiber.Agent
	switch req.Method {
	case fiber.MethodPost:
		a = fiber.Post(req.URL)
	default:
		a = fiber.Get(req.URL)
	}
	if req.User != "" || req.Password != "" {
		a.BasicAuth(req.User, req.Password)
	}
	if req.Bearer != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+req.Bearer)
	}
	if req.Body != nil {
		a.ContentType(fiber.MIMEApplicationJSON)
		a.Body(req.Body)
	}
	if req.Timeout > 0 {
		a.Timeout(req.Timeout)
	}

	start := time.Now()
	code, body, errs := a.Bytes()
	elapsed := time.Since(start)

	switch {
	case len(errs) > 0:
		rec.ObserveUpstream(system, OutcomeError, elapsed)
		return nil, 0, fmt.Errorf("%s request to %s failed: %w: %w", system, req.URL, ErrUnavailable, errors.Join(errs...))
	case code == fiber.StatusNotFound:
		rec.ObserveUpstream(system, OutcomeNotFound, elapsed)
		return nil, code, fmt.Errorf("%s %s: %w", system, req.URL, ErrNotFound)
	case code < 200 || code >= 300:
		rec.ObserveUpstream(system, OutcomeStatus, elapsed)
		return body, code, &StatusError{System: system, URL: req.URL, Code: code, Body: string(body)}
	}

	rec.ObserveUpstream(system, OutcomeOK, elapsed)
	return body, code, nil
}
