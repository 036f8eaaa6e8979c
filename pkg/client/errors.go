package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failure so callers can decide between retrying,
// refetching and aborting without parsing messages.
type Kind int

const (
	// KindTransient is a network error, 429 or 5xx that exhausted its retries.
	KindTransient Kind = iota + 1
	// KindClient is a 4xx other than 409 and 429. Never retried.
	KindClient
	// KindConflict is a 409 on a versioned resource. Never retried.
	KindConflict
	// KindProtocol is a malformed or runaway response sequence. Always fatal.
	KindProtocol
	// KindLocal is a filesystem failure on this machine.
	KindLocal
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindClient:
		return "client"
	case KindConflict:
		return "conflict"
	case KindProtocol:
		return "protocol"
	case KindLocal:
		return "local"
	default:
		return "unknown"
	}
}

var (
	// ErrPaginationLoop is returned when a next link points at a page that was
	// already fetched during the same walk.
	ErrPaginationLoop = errors.New("Pagination loop detected")

	// ErrPaginationAborted is returned when a walk exceeds the page ceiling.
	ErrPaginationAborted = errors.New("pagination aborted after too many pages (possible infinite loop)")

	// ErrUnexpectedShape is returned when a list response has neither an
	// items/results array nor is itself an array.
	ErrUnexpectedShape = errors.New("unexpected response shape: missing results array")
)

// Error is the error type returned by the transport and the components built
// on it.
type Error struct {
	Kind     Kind
	Method   string
	URL      string
	Status   int
	Attempts int

	// Message is a best-effort human readable extraction of the remote error.
	Message string

	// Body is the raw response body, surfaced only in verbose output.
	Body string

	// Header holds the failing response headers, nil for connection errors.
	Header http.Header

	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindConflict:
		return fmt.Sprintf(
			"version conflict on %s %s: the resource was modified concurrently; refetch the latest version and retry",
			e.Method, e.URL)
	case KindTransient:
		if e.Status == 0 {
			return fmt.Sprintf("%s %s failed after %d attempt(s): %v", e.Method, e.URL, e.Attempts, e.Err)
		}
		return fmt.Sprintf("%s %s failed after %d attempt(s): %d %s%s",
			e.Method, e.URL, e.Attempts, e.Status, http.StatusText(e.Status), e.suffix())
	case KindClient:
		return fmt.Sprintf("%s %s failed: %d %s%s",
			e.Method, e.URL, e.Status, http.StatusText(e.Status), e.suffix())
	case KindProtocol:
		if e.URL != "" {
			return fmt.Sprintf("%v (at %s)", e.Err, e.URL)
		}
		return e.Err.Error()
	case KindLocal:
		return e.Err.Error()
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "request failed"
	}
}

func (e *Error) suffix() string {
	if e.Message == "" {
		return ""
	}
	return ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether err is worth another attempt with a fresh request.
func Retryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindTransient
}

// IsConflict reports whether err is a version conflict.
func IsConflict(err error) bool { return hasKind(err, KindConflict) }

// IsTransient reports whether err is a retry-exhausted transient failure.
func IsTransient(err error) bool { return hasKind(err, KindTransient) }

// IsClientError reports whether err is a non-retryable 4xx.
func IsClientError(err error) bool { return hasKind(err, KindClient) }

// IsProtocol reports whether err is a pagination or shape failure.
func IsProtocol(err error) bool { return hasKind(err, KindProtocol) }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

func hasKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// LocalError wraps a filesystem failure.
func LocalError(op, path string, err error) error {
	return &Error{Kind: KindLocal, Err: fmt.Errorf("%s %s: %w", op, path, err)}
}

func protocolError(url string, err error) error {
	return &Error{Kind: KindProtocol, URL: url, Err: err}
}

// statusError classifies a non-2xx response.
func statusError(method, url string, status int, header http.Header, body []byte) *Error {
	e := &Error{
		Method:   method,
		URL:      url,
		Status:   status,
		Attempts: 1,
		Message:  extractMessage(body),
		Body:     string(body),
		Header:   header,
	}
	switch {
	case status == http.StatusConflict:
		e.Kind = KindConflict
	case status == http.StatusTooManyRequests || status >= 500:
		e.Kind = KindTransient
	default:
		e.Kind = KindClient
	}
	return e
}

const maxMessageLen = 300

// extractMessage pulls the most useful line out of an error body. Both API
// generations use different shapes, and proxies sometimes answer with HTML.
func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, key := range []string{"message", "errorMessage", "detail", "title", "reason"} {
			if s, ok := parsed[key].(string); ok && strings.TrimSpace(s) != "" {
				return truncate(strings.TrimSpace(s))
			}
		}
		if errs, ok := parsed["errors"].([]any); ok {
			var msgs []string
			for _, raw := range errs {
				item, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				for _, key := range []string{"title", "detail", "message"} {
					if s, ok := item[key].(string); ok && s != "" {
						msgs = append(msgs, s)
						break
					}
				}
			}
			if len(msgs) > 0 {
				return truncate(strings.Join(msgs, "; "))
			}
		}
		if data, ok := parsed["data"].(map[string]any); ok {
			if errs, ok := data["errors"].([]any); ok && len(errs) > 0 {
				if item, ok := errs[0].(map[string]any); ok {
					if msg, ok := item["message"].(map[string]any); ok {
						if s, ok := msg["translation"].(string); ok {
							return truncate(s)
						}
						if s, ok := msg["key"].(string); ok {
							return truncate(s)
						}
					}
				}
			}
		}
		return ""
	}

	if strings.HasPrefix(trimmed, "<") {
		return ""
	}
	return truncate(trimmed)
}

func truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	return s[:maxMessageLen-3] + "..."
}
