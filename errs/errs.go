// Package errs provides structured error types and helpers for the Team Cowboy client.
package errs

import (
	"errors"
	"strconv"
	"strings"
)

// Code identifies the failure category of a client call.
type Code string

const (
	// CodeTransport indicates a network, timeout or unreadable-response failure.
	CodeTransport Code = "transport"
	// CodeDecode indicates a response that is not a well-formed envelope or payload.
	CodeDecode Code = "decode"
	// CodeAPI indicates the service answered with success=false.
	CodeAPI Code = "api"
	// CodeConfig indicates malformed credentials or client options.
	CodeConfig Code = "config"
	// CodeInvalid indicates invalid input provided by the caller.
	CodeInvalid Code = "invalid_request"
	// CodeUnavailable indicates a local component refused work (closed, saturated).
	CodeUnavailable Code = "unavailable"
)

// E captures structured error information produced across the client stack.
type E struct {
	Service string
	Method  string
	Code    Code
	HTTP    int
	RawCode string
	RawMsg  string
	Message string

	cause error
}

// Option configures an error envelope.
type Option func(*E)

// New constructs an error envelope for the service component and error code.
func New(service string, code Code, opts ...Option) *E {
	e := &E{
		Service: strings.TrimSpace(service),
		Code:    code,
		HTTP:    0,
		RawCode: "",
		RawMsg:  "",
		Message: "",
		cause:   nil,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// WithMessage attaches a human-readable message to the error.
func WithMessage(message string) Option {
	trimmed := strings.TrimSpace(message)
	return func(e *E) {
		e.Message = trimmed
	}
}

// WithMethod records the remote API method the failure belongs to.
func WithMethod(method string) Option {
	trimmed := strings.TrimSpace(method)
	return func(e *E) {
		e.Method = trimmed
	}
}

// WithHTTP records the associated HTTP status code.
func WithHTTP(status int) Option {
	return func(e *E) {
		e.HTTP = status
	}
}

// WithRawCode captures the raw service error code.
func WithRawCode(code string) Option {
	trimmed := strings.TrimSpace(code)
	return func(e *E) {
		e.RawCode = trimmed
	}
}

// WithRawMessage captures the raw service error message.
func WithRawMessage(msg string) Option {
	return func(e *E) {
		e.RawMsg = msg
	}
}

// WithCause sets the underlying cause error.
func WithCause(err error) Option {
	return func(e *E) {
		e.cause = err
	}
}

func (e *E) Error() string {
	if e == nil {
		return "<nil>"
	}
	var parts []string

	service := strings.TrimSpace(e.Service)
	if service == "" {
		service = "unknown"
	}
	parts = append(parts, "service="+service)

	code := strings.TrimSpace(string(e.Code))
	if code == "" {
		code = "unknown"
	}
	parts = append(parts, "code="+code)

	if e.Method != "" {
		parts = append(parts, "method="+e.Method)
	}
	if e.HTTP > 0 {
		parts = append(parts, "http="+strconv.Itoa(e.HTTP))
	}
	if e.Message != "" {
		parts = append(parts, "message="+strconv.Quote(e.Message))
	}
	if e.RawCode != "" {
		parts = append(parts, "raw_code="+strconv.Quote(e.RawCode))
	}
	if e.RawMsg != "" {
		parts = append(parts, "raw_msg="+strconv.Quote(e.RawMsg))
	}
	if e.cause != nil {
		parts = append(parts, "cause="+strconv.Quote(e.cause.Error()))
	}

	return strings.Join(parts, " ")
}

func (e *E) Unwrap() error { return e.cause }

// IsCode reports whether err wraps an *E carrying the given code.
func IsCode(err error, code Code) bool {
	var target *E
	if !errors.As(err, &target) {
		return false
	}
	return target.Code == code
}

// CodeOf extracts the code of the first *E in err's chain, or "" when none is present.
func CodeOf(err error) Code {
	var target *E
	if !errors.As(err, &target) {
		return ""
	}
	return target.Code
}
