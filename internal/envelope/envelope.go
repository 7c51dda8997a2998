// Package envelope decodes the Team Cowboy response wrapper into a success
// payload or a structured API error.
package envelope

import (
	"bytes"
	"fmt"
	"reflect"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/coachpo/teamcowboy/errs"
)

// APIError is the body of an envelope whose success flag is false.
type APIError struct {
	ErrorCode  string `json:"errorCode"`
	HTTPStatus int    `json:"httpResponse"`
	Message    string `json:"message"`
}

// Err converts the API error into an *errs.E for callers that prefer error flow.
func (e APIError) Err(method string) error {
	return errs.New("teamcowboy", errs.CodeAPI,
		errs.WithMethod(method),
		errs.WithHTTP(e.HTTPStatus),
		errs.WithRawCode(e.ErrorCode),
		errs.WithRawMessage(e.Message),
	)
}

// Response holds exactly one of a success payload or an APIError.
type Response[T any] struct {
	method      string
	requestSecs decimal.Decimal
	ok          bool
	value       T
	failure     APIError
}

// OK reports whether the service answered success=true.
func (r Response[T]) OK() bool { return r.ok }

// Method returns the remote method the response belongs to, when known.
func (r Response[T]) Method() string { return r.method }

// RequestSecs returns the server-side processing time.
func (r Response[T]) RequestSecs() decimal.Decimal { return r.requestSecs }

// Success returns the payload when the call succeeded.
func (r Response[T]) Success() (T, bool) {
	if !r.ok {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Failure returns the API error when the call did not succeed.
func (r Response[T]) Failure() (APIError, bool) {
	if r.ok {
		return APIError{}, false
	}
	return r.failure, true
}

// Value returns the payload, or the API error converted with APIError.Err.
func (r Response[T]) Value() (T, error) {
	if r.ok {
		return r.value, nil
	}
	var zero T
	return zero, r.failure.Err(r.method)
}

// WithMethod returns a copy of r tagged with the remote method name.
func (r Response[T]) WithMethod(method string) Response[T] {
	r.method = method
	return r
}

// Succeeded constructs a success response, mainly for fakes and tests.
func Succeeded[T any](value T, requestSecs decimal.Decimal) Response[T] {
	return Response[T]{ok: true, value: value, requestSecs: requestSecs}
}

// Failed constructs a failure response, mainly for fakes and tests.
func Failed[T any](apiErr APIError, requestSecs decimal.Decimal) Response[T] {
	return Response[T]{ok: false, failure: apiErr, requestSecs: requestSecs}
}

type rawEnvelope struct {
	Success     *bool            `json:"success"`
	RequestSecs *decimal.Decimal `json:"requestSecs"`
	Body        json.RawMessage  `json:"body"`
}

// Decode parses raw as an envelope and decodes its body into T or APIError
// depending solely on the success flag.
func Decode[T any](raw []byte) (Response[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Response[T]{}, decodeError("response is not a JSON object", nil)
	}

	var env rawEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Response[T]{}, decodeError("parse envelope", err)
	}
	if env.Success == nil {
		return Response[T]{}, decodeError("envelope missing success", nil)
	}
	if env.RequestSecs == nil {
		return Response[T]{}, decodeError("envelope missing requestSecs", nil)
	}

	if *env.Success {
		value, err := decodeBody[T](env.Body)
		if err != nil {
			return Response[T]{}, err
		}
		return Succeeded(value, *env.RequestSecs), nil
	}

	var apiErr APIError
	if isAbsent(env.Body) {
		return Response[T]{}, decodeError("failure envelope missing body", nil)
	}
	if err := json.Unmarshal(env.Body, &apiErr); err != nil {
		return Response[T]{}, decodeError("decode error body", err)
	}
	return Failed[T](apiErr, *env.RequestSecs), nil
}

// DecodeString is Decode for the transport's string bodies.
func DecodeString[T any](raw string) (Response[T], error) {
	return Decode[T]([]byte(raw))
}

func decodeBody[T any](body json.RawMessage) (T, error) {
	var value T
	if len(bytes.TrimSpace(body)) == 0 {
		return value, decodeError("success envelope missing body", nil)
	}
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		if nilable[T]() {
			return value, nil
		}
		return value, decodeError(fmt.Sprintf("null body for %T", value), nil)
	}
	if err := json.Unmarshal(body, &value); err != nil {
		return value, decodeError(fmt.Sprintf("decode body into %T", value), err)
	}
	return value, nil
}

func isAbsent(body json.RawMessage) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func nilable[T any]() bool {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	default:
		return false
	}
}

func decodeError(msg string, cause error) error {
	opts := []errs.Option{errs.WithMessage(msg)}
	if cause != nil {
		opts = append(opts, errs.WithCause(cause))
	}
	return errs.New("envelope", errs.CodeDecode, opts...)
}
