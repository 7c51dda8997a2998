package teamcowboy

import (
	"strconv"
	"strings"
	"time"

	"github.com/coachpo/teamcowboy/internal/signing"
)

// DateLayout is the wire format of date parameters.
const DateLayout = "2006-01-02"

// Int returns a pointer to v for optional request fields.
func Int(v int) *int { return &v }

// Bool returns a pointer to v for optional request fields.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v for optional request fields.
func String(v string) *string { return &v }

// Date returns a pointer to the calendar date of t for optional request fields.
func Date(t time.Time) *time.Time { return &t }

// builder collects call parameters and the first validation failure.
type builder struct {
	method string
	params signing.Params
	err    error
}

func newBuilder(method string) *builder {
	return &builder{method: method, params: signing.NewParams()}
}

func (b *builder) token(v string) *builder {
	return b.required("userToken", v)
}

func (b *builder) required(name, v string) *builder {
	if strings.TrimSpace(v) == "" {
		b.fail(name + " required")
		return b
	}
	b.params.Set(name, v)
	return b
}

func (b *builder) id(name string, v int) *builder {
	if v <= 0 {
		b.fail(name + " must be positive")
		return b
	}
	b.params.Set(name, strconv.Itoa(v))
	return b
}

func (b *builder) optID(name string, v *int) *builder {
	if v == nil {
		return b
	}
	return b.id(name, *v)
}

func (b *builder) optInt(name string, v *int) *builder {
	if v == nil {
		return b
	}
	if *v < 0 {
		b.fail(name + " must not be negative")
		return b
	}
	b.params.Set(name, strconv.Itoa(*v))
	return b
}

func (b *builder) optBool(name string, v *bool) *builder {
	if v != nil {
		b.params.Set(name, strconv.FormatBool(*v))
	}
	return b
}

func (b *builder) optString(name string, v *string) *builder {
	if v != nil {
		b.params.Set(name, *v)
	}
	return b
}

func (b *builder) optDate(name string, v *time.Time) *builder {
	if v != nil {
		b.params.Set(name, v.Format(DateLayout))
	}
	return b
}

func (b *builder) fail(msg string) {
	if b.err == nil {
		b.err = invalid(b.method, msg)
	}
}

func (b *builder) spec(verb signing.Verb, secure bool) (signing.CallSpec, error) {
	if b.err != nil {
		return signing.CallSpec{}, b.err
	}
	return signing.CallSpec{Method: b.method, Verb: verb, Secure: secure, Params: b.params}, nil
}
