package transport

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"

	"github.com/coachpo/teamcowboy/errs"
)

// RateLimited throttles outbound requests with a token bucket shared by all callers.
type RateLimited struct {
	next    Transport
	limiter *rate.Limiter
}

// NewRateLimited wraps next with a limiter allowing perSecond requests and the given burst.
// A non-positive perSecond disables throttling.
func NewRateLimited(next Transport, perSecond float64, burst int) Transport {
	if perSecond <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// PerformRequest implements Transport.
func (r *RateLimited) PerformRequest(ctx context.Context, req Request) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", errs.New("transport", errs.CodeTransport,
			errs.WithMethod(req.Method),
			errs.WithMessage("rate limiter wait"),
			errs.WithCause(err))
	}
	return r.next.PerformRequest(ctx, req)
}

// Instrumented records request counts and latency for every exchange.
type Instrumented struct {
	next     Transport
	requests metric.Int64Counter
	duration metric.Float64Histogram
	clock    func() time.Time
}

// NewInstrumented wraps next with otel instruments created from meter.
func NewInstrumented(next Transport, meter metric.Meter) (Transport, error) {
	requests, err := meter.Int64Counter("teamcowboy.client.requests",
		metric.WithDescription("Outbound Team Cowboy API requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("teamcowboy.client.duration",
		metric.WithDescription("Outbound Team Cowboy API request duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	return &Instrumented{next: next, requests: requests, duration: duration, clock: time.Now}, nil
}

// PerformRequest implements Transport.
func (i *Instrumented) PerformRequest(ctx context.Context, req Request) (string, error) {
	start := i.clock()
	body, err := i.next.PerformRequest(ctx, req)
	elapsed := float64(i.clock().Sub(start).Microseconds()) / 1000

	outcome := "ok"
	if err != nil {
		outcome = string(errs.CodeOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	attrs := metric.WithAttributes(
		attribute.String("method", req.Method),
		attribute.String("verb", string(req.Verb)),
		attribute.String("outcome", outcome),
	)
	i.requests.Add(ctx, 1, attrs)
	i.duration.Record(ctx, elapsed, attrs)
	return body, err
}
