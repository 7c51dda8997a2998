package signing

import (
	"crypto/sha1" //nolint:gosec // the service verifies SHA-1 signatures.
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/coachpo/teamcowboy/errs"
)

// Verb is the HTTP verb a call is dispatched with.
type Verb string

const (
	// VerbGET sends parameters in the query string.
	VerbGET Verb = "GET"
	// VerbPOST sends parameters as a form-encoded body.
	VerbPOST Verb = "POST"
)

// Valid reports whether v is a supported verb.
func (v Verb) Valid() bool {
	return v == VerbGET || v == VerbPOST
}

// Algorithm names the digest used for request signatures.
type Algorithm string

// AlgorithmSHA1 is the 160-bit digest the service verifies.
const AlgorithmSHA1 Algorithm = "sha1"

type digestFunc func([]byte) string

func digestFor(alg Algorithm) (digestFunc, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(string(alg)))) {
	case AlgorithmSHA1, "":
		return func(input []byte) string {
			sum := sha1.Sum(input) //nolint:gosec
			return hex.EncodeToString(sum[:])
		}, nil
	default:
		return nil, errs.New("signing", errs.CodeConfig, errs.WithMessage(fmt.Sprintf("unsupported signing algorithm %q", alg)))
	}
}

// Credentials hold the API key pair for the lifetime of a client.
type Credentials struct {
	PublicKey  string
	PrivateKey string
}

// Validate rejects empty keys and keys carrying whitespace or control characters.
func (c Credentials) Validate() error {
	if err := validateKey("public key", c.PublicKey); err != nil {
		return err
	}
	return validateKey("private key", c.PrivateKey)
}

func validateKey(label, key string) error {
	if key == "" {
		return errs.New("signing", errs.CodeConfig, errs.WithMessage(label+" required"))
	}
	for _, r := range key {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return errs.New("signing", errs.CodeConfig, errs.WithMessage(label+" contains whitespace or control characters"))
		}
	}
	return nil
}

// NonceSource derives a per-call nonce from the call timestamp.
type NonceSource interface {
	Nonce(timestamp int64) string
}

// LegacyNonce appends a random value in [0, 98] to the decimal timestamp.
type LegacyNonce struct{}

// Nonce implements NonceSource.
func (LegacyNonce) Nonce(timestamp int64) string {
	return strconv.FormatInt(timestamp, 10) + strconv.Itoa(rand.IntN(99))
}

// CounterNonce appends a per-instance monotonic counter to the decimal
// timestamp, so nonces never repeat within one process for the same second.
type CounterNonce struct {
	next atomic.Uint64
}

// Nonce implements NonceSource.
func (c *CounterNonce) Nonce(timestamp int64) string {
	n := c.next.Add(1) % 1_000_000
	return strconv.FormatInt(timestamp, 10) + fmt.Sprintf("%06d", n)
}

// CallSpec describes one remote call before signing.
type CallSpec struct {
	Method string
	Verb   Verb
	Secure bool
	Params Params
}

// SignedRequest is a call with its canonical parameters, signature and wire form.
type SignedRequest struct {
	method    string
	verb      Verb
	secure    bool
	params    Params
	timestamp int64
	nonce     string
	signature string
	wire      string
}

// Method returns the remote method name.
func (r SignedRequest) Method() string { return r.method }

// Verb returns the HTTP verb.
func (r SignedRequest) Verb() Verb { return r.verb }

// Secure reports whether the call must use HTTPS.
func (r SignedRequest) Secure() bool { return r.secure }

// Params returns a copy of the canonical parameters (without sig).
func (r SignedRequest) Params() Params { return r.params.Clone() }

// Timestamp returns the Unix seconds the request was signed at.
func (r SignedRequest) Timestamp() int64 { return r.timestamp }

// Nonce returns the nonce mixed into the signature.
func (r SignedRequest) Nonce() string { return r.nonce }

// Signature returns the lowercase hex signature.
func (r SignedRequest) Signature() string { return r.signature }

// Wire returns the encoded parameters followed by the sig parameter.
func (r SignedRequest) Wire() string { return r.wire }

// Signer canonicalises and signs calls with one credential pair.
type Signer struct {
	canon      Canonicalizer
	privateKey string
	digest     digestFunc
	nonces     NonceSource
	clock      func() time.Time
}

// SignerOption customises a Signer.
type SignerOption func(*Signer)

// WithNonceSource overrides the nonce strategy.
func WithNonceSource(src NonceSource) SignerOption {
	return func(s *Signer) {
		if src != nil {
			s.nonces = src
		}
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) SignerOption {
	return func(s *Signer) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewSigner validates creds and the digest algorithm.
func NewSigner(creds Credentials, alg Algorithm, opts ...SignerOption) (*Signer, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	digest, err := digestFor(alg)
	if err != nil {
		return nil, err
	}
	s := &Signer{
		canon:      NewCanonicalizer(creds.PublicKey),
		privateKey: creds.PrivateKey,
		digest:     digest,
		nonces:     LegacyNonce{},
		clock:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Sign builds the signed request for call using the current time and a fresh nonce.
func (s *Signer) Sign(call CallSpec) (SignedRequest, error) {
	timestamp := s.clock().Unix()
	return s.SignAt(call, timestamp, s.nonces.Nonce(timestamp))
}

// SignAt builds the signed request for an explicit timestamp and nonce.
func (s *Signer) SignAt(call CallSpec, timestamp int64, nonce string) (SignedRequest, error) {
	method := call.Method
	if strings.TrimSpace(method) == "" {
		return SignedRequest{}, errs.New("signing", errs.CodeInvalid, errs.WithMessage("method name required"))
	}
	if strings.TrimSpace(method) != method {
		return SignedRequest{}, errs.New("signing", errs.CodeInvalid,
			errs.WithMethod(method), errs.WithMessage("method name has surrounding whitespace"))
	}
	if !call.Verb.Valid() {
		return SignedRequest{}, errs.New("signing", errs.CodeInvalid, errs.WithMethod(method), errs.WithMessage(fmt.Sprintf("unsupported verb %q", call.Verb)))
	}

	params := s.canon.Canonicalize(method, call.Params, timestamp, nonce)
	input := SigningInput(s.privateKey, call.Verb, method, timestamp, nonce, SigningString(params))
	sig := s.digest([]byte(input))

	return SignedRequest{
		method:    method,
		verb:      call.Verb,
		secure:    call.Secure,
		params:    params,
		timestamp: timestamp,
		nonce:     nonce,
		signature: sig,
		wire:      WireString(params) + "&" + ParamSignature + "=" + sig,
	}, nil
}

// SigningInput joins the signature components with '|'.
func SigningInput(privateKey string, verb Verb, method string, timestamp int64, nonce, signingString string) string {
	var b strings.Builder
	b.Grow(len(privateKey) + len(method) + len(nonce) + len(signingString) + 32)
	b.WriteString(privateKey)
	b.WriteByte('|')
	b.WriteString(string(verb))
	b.WriteByte('|')
	b.WriteString(method)
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(timestamp, 10))
	b.WriteByte('|')
	b.WriteString(nonce)
	b.WriteByte('|')
	b.WriteString(signingString)
	return b.String()
}
