// Package teamcowboy is a signed client for the Team Cowboy REST API.
//
// Every operation returns a Response that holds either the typed payload or
// the APIError the service reported. Transport, decode and configuration
// failures are returned as *errs.E errors instead.
package teamcowboy

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/coachpo/teamcowboy/errs"
	"github.com/coachpo/teamcowboy/internal/dispatch"
	"github.com/coachpo/teamcowboy/internal/envelope"
	"github.com/coachpo/teamcowboy/internal/flexmap"
	"github.com/coachpo/teamcowboy/internal/observability"
	"github.com/coachpo/teamcowboy/internal/signing"
	"github.com/coachpo/teamcowboy/internal/transport"
)

// Re-exported building blocks so callers never import internal packages.
type (
	Credentials      = signing.Credentials
	NonceSource      = signing.NonceSource
	Verb             = signing.Verb
	APIError         = envelope.APIError
	Response[T any]  = envelope.Response[T]
	CountByType      = flexmap.CountByType
	UserIDsByType    = flexmap.UserIDsByType
	Transport        = transport.Transport
	TransportRequest = transport.Request
	TransportFunc    = transport.Func
	Logger           = observability.Logger
	Field            = observability.Field
)

// HTTP verbs a TransportRequest may carry.
const (
	VerbGET  = signing.VerbGET
	VerbPOST = signing.VerbPOST
)

// Client signs and dispatches Team Cowboy calls. It is safe for concurrent use.
type Client struct {
	signer     *signing.Signer
	dispatcher *dispatch.Dispatcher
	logger     observability.Logger
	clock      func() time.Time
}

// New validates creds and options and wires the transport stack.
func New(creds Credentials, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	o = withDefaults(o)

	signer, err := signing.NewSigner(creds, o.algorithm,
		signing.WithNonceSource(o.nonces),
		signing.WithClock(o.clock),
	)
	if err != nil {
		return nil, err
	}

	tr := o.transport
	if tr == nil {
		httpOpts := []transport.HTTPOption{transport.WithTimeout(o.timeout)}
		if o.httpClient != nil {
			httpOpts = append(httpOpts, transport.WithHTTPClient(o.httpClient))
		}
		tr = transport.NewHTTP(httpOpts...)
	}
	tr = transport.NewRateLimited(tr, o.rateLimit, o.burst)
	if o.meter != nil {
		tr, err = transport.NewInstrumented(tr, o.meter)
		if err != nil {
			return nil, errs.New("teamcowboy", errs.CodeConfig,
				errs.WithMessage("create instruments"), errs.WithCause(err))
		}
	}

	d, err := dispatch.New(tr,
		dispatch.WithEndpoint(o.endpoint),
		dispatch.WithHTTPSOnly(o.httpsOnly),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		signer:     signer,
		dispatcher: d,
		logger:     o.logger,
		clock:      time.Now,
	}, nil
}

func call[T any](ctx context.Context, c *Client, spec signing.CallSpec) (Response[T], error) {
	requestID := uuid.NewString()
	start := c.clock()
	fields := []observability.Field{
		observability.F("request_id", requestID),
		observability.F("method", spec.Method),
		observability.F("verb", string(spec.Verb)),
	}

	req, err := c.signer.Sign(spec)
	if err != nil {
		c.logger.Error("sign request", append(fields, observability.F("error", err.Error()))...)
		return Response[T]{}, err
	}

	raw, err := c.dispatcher.Send(ctx, req)
	if err != nil {
		c.logger.Error("dispatch request", append(fields, observability.F("error", err.Error()))...)
		return Response[T]{}, tagMethod(err, spec.Method)
	}

	resp, err := envelope.DecodeString[T](raw)
	if err != nil {
		c.logger.Error("decode response", append(fields, observability.F("error", err.Error()))...)
		return Response[T]{}, tagMethod(err, spec.Method)
	}
	resp = resp.WithMethod(spec.Method)

	fields = append(fields,
		observability.F("success", resp.OK()),
		observability.F("request_secs", resp.RequestSecs().String()),
		observability.F("duration_ms", c.clock().Sub(start).Milliseconds()),
	)
	if apiErr, failed := resp.Failure(); failed {
		fields = append(fields, observability.F("error_code", apiErr.ErrorCode))
	}
	c.logger.Debug("call completed", fields...)
	return resp, nil
}

func tagMethod(err error, method string) error {
	var e *errs.E
	if errors.As(err, &e) && e.Method == "" {
		e.Method = method
	}
	return err
}

func invalid(method, msg string) error {
	return errs.New("teamcowboy", errs.CodeInvalid, errs.WithMethod(method), errs.WithMessage(msg))
}
