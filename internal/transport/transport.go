// Package transport moves signed requests over HTTP and returns raw response text.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/coachpo/teamcowboy/errs"
	"github.com/coachpo/teamcowboy/internal/signing"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 8 << 20
	errorSnippetBytes   = 512
	methodHeader        = "method"
	formContentType     = "application/x-www-form-urlencoded"
)

// Request is one outbound exchange. Body is empty for GET.
type Request struct {
	Method string
	Verb   signing.Verb
	URL    string
	Body   string
}

// Transport performs the HTTP exchange and returns the full response body.
type Transport interface {
	PerformRequest(ctx context.Context, req Request) (string, error)
}

// Func adapts a function to the Transport interface.
type Func func(ctx context.Context, req Request) (string, error)

// PerformRequest implements Transport.
func (f Func) PerformRequest(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// HTTP is the net/http backed Transport.
type HTTP struct {
	client       *http.Client
	timeout      time.Duration
	maxBodyBytes int64
}

// HTTPOption customises the HTTP transport.
type HTTPOption func(*HTTP)

// WithHTTPClient overrides the underlying client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		if client != nil {
			h.client = client
		}
	}
}

// WithTimeout bounds each exchange when the caller's context has no deadline.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithMaxBodyBytes caps the response size read into memory.
func WithMaxBodyBytes(n int64) HTTPOption {
	return func(h *HTTP) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// NewHTTP constructs the default transport.
func NewHTTP(opts ...HTTPOption) *HTTP {
	h := &HTTP{
		client:       &http.Client{},
		timeout:      defaultTimeout,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// PerformRequest implements Transport.
func (h *HTTP) PerformRequest(ctx context.Context, req Request) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok && h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	var body io.Reader
	if req.Verb == signing.VerbPOST {
		body = strings.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, string(req.Verb), req.URL, body)
	if err != nil {
		return "", failure(req, 0, "create request", err)
	}
	httpReq.Header.Set(methodHeader, string(req.Verb))
	httpReq.Header.Set("Accept", "application/json")
	if req.Verb == signing.VerbPOST {
		httpReq.Header.Set("Content-Type", formContentType)
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return "", failure(req, 0, "perform request", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBodyBytes+1))
	if err != nil {
		return "", failure(req, resp.StatusCode, "read response", err)
	}
	if int64(len(raw)) > h.maxBodyBytes {
		return "", failure(req, resp.StatusCode, "read response", fmt.Errorf("body exceeds %d bytes", h.maxBodyBytes))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The service reports API errors inside a JSON envelope even on
		// non-2xx statuses; hand those to the envelope decoder.
		if isJSONObject(raw) {
			return string(raw), nil
		}
		snippet := strings.TrimSpace(string(raw))
		if len(snippet) > errorSnippetBytes {
			snippet = snippet[:errorSnippetBytes]
		}
		return "", failure(req, resp.StatusCode, fmt.Sprintf("unexpected status %d", resp.StatusCode), errors.New(snippet))
	}
	return string(raw), nil
}

func isJSONObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed)
}

func failure(req Request, status int, msg string, cause error) error {
	return errs.New("transport", errs.CodeTransport,
		errs.WithMethod(req.Method),
		errs.WithHTTP(status),
		errs.WithMessage(msg),
		errs.WithCause(cause),
	)
}
