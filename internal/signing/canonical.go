package signing

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/coachpo/teamcowboy/errs"
)

// Protocol-mandated parameter names.
const (
	ParamAPIKey       = "api_key"
	ParamMethod       = "method"
	ParamTimestamp    = "timestamp"
	ParamNonce        = "nonce"
	ParamResponseType = "response_type"
	ParamSignature    = "sig"

	responseTypeJSON = "json"
)

// ReservedParams lists the names the canonicaliser always overwrites.
var ReservedParams = []string{ParamAPIKey, ParamMethod, ParamTimestamp, ParamNonce, ParamResponseType}

// Canonicalizer injects protocol fields into call parameters and renders them.
type Canonicalizer struct {
	publicKey string
}

// NewCanonicalizer constructs a canonicaliser for the given public API key.
func NewCanonicalizer(publicKey string) Canonicalizer {
	return Canonicalizer{publicKey: publicKey}
}

// Canonicalize returns a copy of params with the protocol fields set. Caller
// values for reserved names are overwritten.
func (c Canonicalizer) Canonicalize(method string, params Params, timestamp int64, nonce string) Params {
	out := params.Clone()
	out.Set(ParamAPIKey, c.publicKey)
	out.Set(ParamMethod, method)
	out.Set(ParamTimestamp, strconv.FormatInt(timestamp, 10))
	out.Set(ParamNonce, nonce)
	out.Set(ParamResponseType, responseTypeJSON)
	return out
}

// SigningString renders params as unencoded name=value pairs, lowercased.
func SigningString(p Params) string {
	return strings.ToLower(p.String())
}

// WireString renders params with URL-encoded values; space becomes %20.
func WireString(p Params) string {
	return render(p, EscapeValue)
}

// EscapeValue percent-encodes a parameter value using %20 for spaces.
func EscapeValue(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}

// ParseWire decodes a wire string back into a parameter set.
func ParseWire(wire string) (Params, error) {
	out := NewParams()
	if wire == "" {
		return out, nil
	}
	for _, pair := range strings.Split(wire, "&") {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return Params{}, errs.New("signing", errs.CodeInvalid, errs.WithMessage("malformed wire pair "+strconv.Quote(pair)))
		}
		value, err := url.PathUnescape(raw)
		if err != nil {
			return Params{}, errs.New("signing", errs.CodeInvalid, errs.WithMessage("unescape "+name), errs.WithCause(err))
		}
		if out.Has(name) {
			return Params{}, errs.New("signing", errs.CodeInvalid, errs.WithMessage("duplicate parameter "+strconv.Quote(name)))
		}
		out.Set(name, value)
	}
	return out, nil
}
