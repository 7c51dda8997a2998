package teamcowboy

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/coachpo/teamcowboy/internal/dispatch"
	"github.com/coachpo/teamcowboy/internal/observability"
	"github.com/coachpo/teamcowboy/internal/signing"
	"github.com/coachpo/teamcowboy/internal/transport"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	defaultAlgorithm   = signing.AlgorithmSHA1
)

type options struct {
	endpoint   string
	httpsOnly  bool
	transport  transport.Transport
	httpClient *http.Client
	timeout    time.Duration
	algorithm  signing.Algorithm
	nonces     signing.NonceSource
	clock      func() time.Time
	rateLimit  float64
	burst      int
	meter      metric.Meter
	logger     observability.Logger
}

func withDefaults(in options) options {
	if in.endpoint == "" {
		in.endpoint = dispatch.DefaultEndpoint
	}
	if in.timeout <= 0 {
		in.timeout = defaultHTTPTimeout
	}
	if in.algorithm == "" {
		in.algorithm = defaultAlgorithm
	}
	if in.nonces == nil {
		in.nonces = signing.LegacyNonce{}
	}
	if in.clock == nil {
		in.clock = time.Now
	}
	if in.logger == nil {
		in.logger = observability.Log()
	}
	return in
}

// Option configures a Client.
type Option func(*options)

// WithEndpoint overrides the host/path the client talks to, without scheme.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// WithHTTPSOnly forces https for every call, not only token acquisition.
func WithHTTPSOnly(enabled bool) Option {
	return func(o *options) { o.httpsOnly = enabled }
}

// WithTransport replaces the HTTP transport entirely. Timeout and HTTP client
// options are ignored when it is set.
func WithTransport(tr Transport) Option {
	return func(o *options) { o.transport = tr }
}

// WithHTTPClient sets the *http.Client used by the default transport.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithTimeout bounds calls whose context has no deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithAlgorithm selects the signature digest by name.
func WithAlgorithm(alg string) Option {
	return func(o *options) { o.algorithm = signing.Algorithm(alg) }
}

// WithNonceSource replaces the default timestamp+random nonce.
func WithNonceSource(src NonceSource) Option {
	return func(o *options) { o.nonces = src }
}

// WithCounterNonce switches to the per-client counter nonce.
func WithCounterNonce() Option {
	return func(o *options) { o.nonces = &signing.CounterNonce{} }
}

// WithClock overrides the signing clock.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithRateLimit throttles outbound calls client-side. perSecond <= 0 disables it.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *options) {
		o.rateLimit = perSecond
		o.burst = burst
	}
}

// WithMeter records request counters and latency with meter.
func WithMeter(meter metric.Meter) Option {
	return func(o *options) { o.meter = meter }
}

// WithLogger sets the logger for per-call diagnostics.
func WithLogger(logger Logger) Option {
	return func(o *options) { o.logger = logger }
}
