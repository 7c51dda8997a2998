// Package dispatch turns signed requests into transport exchanges.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/coachpo/teamcowboy/errs"
	"github.com/coachpo/teamcowboy/internal/signing"
	"github.com/coachpo/teamcowboy/internal/transport"
)

// DefaultEndpoint is the host and path prefix of the Team Cowboy API.
const DefaultEndpoint = "api.teamcowboy.com/v1/"

// Dispatcher picks the URL and body for a signed request and hands it to the transport.
type Dispatcher struct {
	endpoint  string
	httpsOnly bool
	transport transport.Transport
}

// Option customises a Dispatcher.
type Option func(*Dispatcher)

// WithEndpoint overrides the scheme-less endpoint, e.g. "localhost:8080/v1/".
func WithEndpoint(endpoint string) Option {
	return func(d *Dispatcher) {
		d.endpoint = endpoint
	}
}

// WithHTTPSOnly upgrades every call to https, not only secure ones.
func WithHTTPSOnly(enabled bool) Option {
	return func(d *Dispatcher) {
		d.httpsOnly = enabled
	}
}

// New constructs a dispatcher over tr.
func New(tr transport.Transport, opts ...Option) (*Dispatcher, error) {
	if tr == nil {
		return nil, errs.New("dispatch", errs.CodeConfig, errs.WithMessage("transport required"))
	}
	d := &Dispatcher{endpoint: DefaultEndpoint, transport: tr}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	endpoint, err := normalizeEndpoint(d.endpoint)
	if err != nil {
		return nil, err
	}
	d.endpoint = endpoint
	return d, nil
}

func normalizeEndpoint(raw string) (string, error) {
	endpoint := strings.TrimSpace(raw)
	if strings.Contains(endpoint, "://") {
		return "", errs.New("dispatch", errs.CodeConfig, errs.WithMessage(fmt.Sprintf("endpoint %q must not include a scheme", raw)))
	}
	endpoint = strings.TrimRight(endpoint, "/")
	if endpoint == "" {
		return "", errs.New("dispatch", errs.CodeConfig, errs.WithMessage("endpoint required"))
	}
	if strings.ContainsAny(endpoint, "?# ") {
		return "", errs.New("dispatch", errs.CodeConfig, errs.WithMessage(fmt.Sprintf("endpoint %q is malformed", raw)))
	}
	return endpoint + "/", nil
}

// Target returns the transport request for req without sending it.
func (d *Dispatcher) Target(req signing.SignedRequest) (transport.Request, error) {
	scheme := "http"
	if req.Secure() || d.httpsOnly {
		scheme = "https"
	}
	base := scheme + "://" + d.endpoint

	switch req.Verb() {
	case signing.VerbGET:
		return transport.Request{Method: req.Method(), Verb: signing.VerbGET, URL: base + "?" + req.Wire()}, nil
	case signing.VerbPOST:
		return transport.Request{Method: req.Method(), Verb: signing.VerbPOST, URL: base, Body: req.Wire()}, nil
	default:
		return transport.Request{}, errs.New("dispatch", errs.CodeInvalid,
			errs.WithMethod(req.Method()),
			errs.WithMessage(fmt.Sprintf("unsupported verb %q", req.Verb())))
	}
}

// Send dispatches req and returns the raw response body.
func (d *Dispatcher) Send(ctx context.Context, req signing.SignedRequest) (string, error) {
	target, err := d.Target(req)
	if err != nil {
		return "", err
	}
	return d.transport.PerformRequest(ctx, target)
}
