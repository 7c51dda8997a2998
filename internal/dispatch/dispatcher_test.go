package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coachpo/teamcowboy/errs"
	"github.com/coachpo/teamcowboy/internal/signing"
	"github.com/coachpo/teamcowboy/internal/transport"
)

func signed(t *testing.T, verb signing.Verb, secure bool) signing.SignedRequest {
	t.Helper()
	s, err := signing.NewSigner(signing.Credentials{PublicKey: "pub", PrivateKey: "priv"}, signing.AlgorithmSHA1)
	require.NoError(t, err)
	p := signing.NewParams()
	p.Set("teamId", "5")
	req, err := s.SignAt(signing.CallSpec{Method: "Team_Get", Verb: verb, Secure: secure, Params: p}, 1700000000, "170000000001")
	require.NoError(t, err)
	return req
}

func TestGetTargetCarriesWireInQuery(t *testing.T) {
	var got transport.Request
	d, err := New(transport.Func(func(_ context.Context, req transport.Request) (string, error) {
		got = req
		return "{}", nil
	}))
	require.NoError(t, err)

	req := signed(t, signing.VerbGET, false)
	body, err := d.Send(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "{}", body)
	require.Equal(t, "http://api.teamcowboy.com/v1/?"+req.Wire(), got.URL)
	require.Empty(t, got.Body)
	require.Equal(t, signing.VerbGET, got.Verb)
	require.Equal(t, "Team_Get", got.Method)
}

func TestPostTargetCarriesWireInBody(t *testing.T) {
	d, err := New(transport.Func(func(context.Context, transport.Request) (string, error) { return "", nil }))
	require.NoError(t, err)

	req := signed(t, signing.VerbPOST, true)
	target, err := d.Target(req)
	require.NoError(t, err)
	require.Equal(t, "https://api.teamcowboy.com/v1/", target.URL)
	require.Equal(t, req.Wire(), target.Body)
	require.True(t, strings.HasSuffix(target.Body, "&sig="+req.Signature()))
}

func TestHTTPSOnlyUpgradesInsecureCalls(t *testing.T) {
	d, err := New(transport.Func(func(context.Context, transport.Request) (string, error) { return "", nil }),
		WithHTTPSOnly(true), WithEndpoint("localhost:8080/v1"))
	require.NoError(t, err)

	target, err := d.Target(signed(t, signing.VerbGET, false))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(target.URL, "https://localhost:8080/v1/?"))
}

func TestTransportErrorsPropagate(t *testing.T) {
	boom := errs.New("transport", errs.CodeTransport, errs.WithCause(errors.New("dial")))
	d, err := New(transport.Func(func(context.Context, transport.Request) (string, error) { return "", boom }))
	require.NoError(t, err)

	_, err = d.Send(context.Background(), signed(t, signing.VerbGET, false))
	require.ErrorIs(t, err, boom)
}

func TestNewValidatesConfiguration(t *testing.T) {
	_, err := New(nil)
	require.True(t, errs.IsCode(err, errs.CodeConfig))

	noop := transport.Func(func(context.Context, transport.Request) (string, error) { return "", nil })
	for _, endpoint := range []string{"", "  ", "https://api.teamcowboy.com/v1/", "host/v1/?x=1"} {
		_, err := New(noop, WithEndpoint(endpoint))
		require.True(t, errs.IsCode(err, errs.CodeConfig), endpoint)
	}
}
