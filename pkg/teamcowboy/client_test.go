package teamcowboy

import (
	"context"
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/coachpo/teamcowboy/errs"
	"github.com/coachpo/teamcowboy/internal/observability"
	"github.com/coachpo/teamcowboy/internal/signing"
	"github.com/coachpo/teamcowboy/internal/transport"
)

var testCreds = Credentials{PublicKey: "pubkey", PrivateKey: "privkey"}

type fixedNonce string

func (n fixedNonce) Nonce(int64) string { return string(n) }

type recorder struct {
	mu       sync.Mutex
	requests []transport.Request
	body     string
	err      error
}

func (r *recorder) PerformRequest(_ context.Context, req transport.Request) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	return r.body, r.err
}

func (r *recorder) last(t *testing.T) transport.Request {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.requests)
	return r.requests[len(r.requests)-1]
}

func wireOf(t *testing.T, req transport.Request) signing.Params {
	t.Helper()
	wire := req.Body
	if req.Verb == signing.VerbGET {
		_, query, ok := strings.Cut(req.URL, "?")
		require.True(t, ok, req.URL)
		wire = query
	}
	params, err := signing.ParseWire(wire)
	require.NoError(t, err)
	return params
}

func newTestClient(t *testing.T, rec *recorder, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithTransport(rec),
		WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
		WithNonceSource(fixedNonce("170000000042")),
	}
	c, err := New(testCreds, append(base, opts...)...)
	require.NoError(t, err)
	return c
}

const okEvents = `{"success": true, "requestSecs": 0.012, "body": []}`

func TestOptionalParametersAreOmitted(t *testing.T) {
	rec := &recorder{body: okEvents}
	c := newTestClient(t, rec)

	_, err := c.GetTeamEvents(context.Background(), TeamEventsRequest{UserToken: "tok", TeamID: 12})
	require.NoError(t, err)

	params := wireOf(t, rec.last(t))
	require.Equal(t, []string{"api_key", "method", "nonce", "response_type", "sig", "teamId", "timestamp", "userToken"}, params.Keys())
}

func TestOptionalParametersAreRendered(t *testing.T) {
	rec := &recorder{body: okEvents}
	c := newTestClient(t, rec)

	start := time.Date(2024, time.March, 5, 18, 30, 0, 0, time.UTC)
	_, err := c.GetTeamEvents(context.Background(), TeamEventsRequest{
		UserToken:     "tok",
		TeamID:        12,
		SeasonID:      Int(3),
		Filter:        String("upcoming games"),
		StartDateTime: Date(start),
		Offset:        Int(0),
		Qty:           Int(10),
	})
	require.NoError(t, err)

	req := rec.last(t)
	require.Contains(t, req.URL, "filter=upcoming%20games")
	params := wireOf(t, req)
	got, _ := params.Get("startDateTime")
	require.Equal(t, "2024-03-05", got)
	got, _ = params.Get("offset")
	require.Equal(t, "0", got)
	require.False(t, params.Has("endDateTime"))
}

func TestGetUserTokenIsSecurePost(t *testing.T) {
	rec := &recorder{body: `{"success": true, "requestSecs": 0.2, "body": {"userId": 99, "token": "abc"}}`}
	c := newTestClient(t, rec)

	resp, err := c.GetUserToken(context.Background(), "user@example.com", "p@ss word")
	require.NoError(t, err)
	token, ok := resp.Success()
	require.True(t, ok)
	require.Equal(t, UserToken{UserID: 99, Token: "abc"}, token)
	require.Equal(t, MethodAuthGetUserToken, resp.Method())

	req := rec.last(t)
	require.Equal(t, signing.VerbPOST, req.Verb)
	require.Equal(t, "https://api.teamcowboy.com/v1/", req.URL)
	require.Contains(t, req.Body, "password=p%40ss%20word")
	params := wireOf(t, req)
	method, _ := params.Get("method")
	require.Equal(t, MethodAuthGetUserToken, method)
}

func TestRegularCallsUseHTTPUnlessHTTPSOnly(t *testing.T) {
	rec := &recorder{body: `{"success": true, "requestSecs": 0.1, "body": "pong"}`}
	c := newTestClient(t, rec)
	_, err := c.TestGetRequest(context.Background(), String("ping"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rec.last(t).URL, "http://api.teamcowboy.com/v1/?"))

	secure := newTestClient(t, rec, WithHTTPSOnly(true))
	_, err = secure.TestPostRequest(context.Background(), nil)
	require.NoError(t, err)
	req := rec.last(t)
	require.Equal(t, "https://api.teamcowboy.com/v1/", req.URL)
	require.False(t, wireOf(t, req).Has("testParam"))
}

func TestSignatureMatchesSigningInput(t *testing.T) {
	rec := &recorder{body: `{"success": true, "requestSecs": 0.1, "body": {"teamId": 5, "name": "Mudcats"}}`}
	c := newTestClient(t, rec)

	resp, err := c.GetTeam(context.Background(), "tok", 5)
	require.NoError(t, err)
	team, ok := resp.Success()
	require.True(t, ok)
	require.Equal(t, "Mudcats", team.Name)

	params := wireOf(t, rec.last(t))
	sig, _ := params.Get("sig")
	params.Delete("sig")
	input := signing.SigningInput("privkey", signing.VerbGET, MethodTeamGet, 1700000000, "170000000042", signing.SigningString(params))
	sum := sha1.Sum([]byte(input)) //nolint:gosec
	require.Equal(t, hex.EncodeToString(sum[:]), sig)
	require.True(t, strings.HasSuffix(rec.last(t).URL, "&sig="+sig))
}

func TestAPIFailureIsAResponseNotAnError(t *testing.T) {
	rec := &recorder{body: `{"success": false, "requestSecs": 0.01, "body": {"errorCode": "Authentication:TokenInvalid", "httpResponse": 401, "message": "bad token"}}`}
	c := newTestClient(t, rec)

	resp, err := c.GetUser(context.Background(), "expired")
	require.NoError(t, err)
	apiErr, failed := resp.Failure()
	require.True(t, failed)
	require.Equal(t, 401, apiErr.HTTPStatus)

	_, err = resp.Value()
	require.True(t, errs.IsCode(err, errs.CodeAPI))
	require.Contains(t, err.Error(), "method=User_Get")
}

func TestTransportAndDecodeErrorsCarryMethod(t *testing.T) {
	rec := &recorder{err: errs.New("transport", errs.CodeTransport, errs.WithCause(errors.New("connection refused")))}
	c := newTestClient(t, rec)
	_, err := c.GetUserTeams(context.Background(), "tok")
	require.True(t, errs.IsCode(err, errs.CodeTransport))
	require.Contains(t, err.Error(), "method=User_GetTeams")

	rec = &recorder{body: `<html>maintenance</html>`}
	c = newTestClient(t, rec)
	_, err = c.GetUserTeams(context.Background(), "tok")
	require.True(t, errs.IsCode(err, errs.CodeDecode))
	require.Contains(t, err.Error(), "method=User_GetTeams")
}

func TestInvalidRequestsNeverReachTransport(t *testing.T) {
	rec := &recorder{body: okEvents}
	c := newTestClient(t, rec)
	ctx := context.Background()

	_, err := c.GetTeam(ctx, "", 5)
	require.True(t, errs.IsCode(err, errs.CodeInvalid))
	_, err = c.GetTeam(ctx, "tok", 0)
	require.True(t, errs.IsCode(err, errs.CodeInvalid))
	_, err = c.SaveRSVP(ctx, SaveRSVPRequest{UserToken: "tok", TeamID: 1, EventID: 2})
	require.True(t, errs.IsCode(err, errs.CodeInvalid))
	_, err = c.GetTeamMessages(ctx, MessagesRequest{UserToken: "tok"})
	require.True(t, errs.IsCode(err, errs.CodeInvalid))
	_, err = c.GetTeamEvents(ctx, TeamEventsRequest{UserToken: "tok", TeamID: 1, Qty: Int(-1)})
	require.True(t, errs.IsCode(err, errs.CodeInvalid))
	require.Empty(t, rec.requests)
}

func TestSaveRSVPParameters(t *testing.T) {
	rec := &recorder{body: `{"success": true, "requestSecs": 0.1, "body": {"rsvpSaved": true, "status": "yes"}}`}
	c := newTestClient(t, rec)

	resp, err := c.SaveRSVP(context.Background(), SaveRSVPRequest{
		UserToken: "tok", TeamID: 1, EventID: 2, Status: RSVPYes, AddlMale: Int(1), Comments: String("late 10 min"),
	})
	require.NoError(t, err)
	saved, ok := resp.Success()
	require.True(t, ok)
	require.True(t, saved.RSVPSaved)

	req := rec.last(t)
	require.Equal(t, signing.VerbPOST, req.Verb)
	params := wireOf(t, req)
	comments, _ := params.Get("comments")
	require.Equal(t, "late 10 min", comments)
	require.False(t, params.Has("addlFemale"))
	require.False(t, params.Has("rsvpAsUserId"))
}

func TestAttendanceListKeepsCategoryOrder(t *testing.T) {
	rec := &recorder{body: `{"success": true, "requestSecs": 0.1, "body": {"eventId": 2,
		"countsByStatus": {"yes": 4, "no": 1, "maybe": 2},
		"userIdsByStatus": {"yes": [10, 11, 12, 13], "no": [14], "maybe": [15, 16]}}}`}
	c := newTestClient(t, rec)

	resp, err := c.GetAttendanceList(context.Background(), EventRequest{UserToken: "tok", TeamID: 1, EventID: 2})
	require.NoError(t, err)
	list, ok := resp.Success()
	require.True(t, ok)
	require.Equal(t, []string{"yes", "no", "maybe"}, list.CountsByStatus.Keys())
	maybe, _ := list.UserIDsByType.Get("maybe")
	require.Equal(t, []int64{15, 16}, maybe)
}

func TestNextTeamEventMayBeEmpty(t *testing.T) {
	rec := &recorder{body: `{"success": true, "requestSecs": 0.1, "body": null}`}
	c := newTestClient(t, rec)
	resp, err := c.GetUserNextTeamEvent(context.Background(), "tok", nil)
	require.NoError(t, err)
	event, ok := resp.Success()
	require.True(t, ok)
	require.Nil(t, event)
}

func TestNewRejectsBadConfiguration(t *testing.T) {
	_, err := New(Credentials{PublicKey: " ", PrivateKey: "x"})
	require.True(t, errs.IsCode(err, errs.CodeConfig))

	_, err = New(testCreds, WithAlgorithm("md5"))
	require.True(t, errs.IsCode(err, errs.CodeConfig))

	_, err = New(testCreds, WithEndpoint("https://api.teamcowboy.com/v1/"))
	require.True(t, errs.IsCode(err, errs.CodeConfig))
}

func TestConcurrentCallsProduceDistinctNonces(t *testing.T) {
	rec := &recorder{body: `{"success": true, "requestSecs": 0.1, "body": {"userId": 1}}`}
	c, err := New(testCreds, WithTransport(rec), WithCounterNonce())
	require.NoError(t, err)

	var wg conc.WaitGroup
	for range 32 {
		wg.Go(func() {
			_, err := c.GetUser(context.Background(), "tok")
			require.NoError(t, err)
		})
	}
	wg.Wait()

	seen := make(map[string]struct{})
	for _, req := range rec.requests {
		nonce, _ := wireOf(t, req).Get("nonce")
		seen[nonce] = struct{}{}
	}
	require.Len(t, seen, 32)
}

type captureLogger struct {
	mu     sync.Mutex
	debugs []string
	fields map[string]any
}

func (l *captureLogger) Debug(msg string, fields ...observability.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debugs = append(l.debugs, msg)
	l.fields = make(map[string]any, len(fields))
	for _, f := range fields {
		l.fields[f.Key] = f.Value
	}
}
func (l *captureLogger) Info(string, ...observability.Field)  {}
func (l *captureLogger) Error(string, ...observability.Field) {}

func TestCallsAreLoggedAndMeasured(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()
	logger := &captureLogger{}

	rec := &recorder{body: `{"success": true, "requestSecs": 0.1, "body": []}`}
	c := newTestClient(t, rec, WithMeter(mp.Meter("test")), WithLogger(logger))
	_, err := c.GetTeamSeasons(context.Background(), "tok", 3)
	require.NoError(t, err)

	require.Equal(t, []string{"call completed"}, logger.debugs)
	require.Equal(t, MethodTeamGetSeasons, logger.fields["method"])
	require.NotEmpty(t, logger.fields["request_id"])

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}
	require.True(t, names["teamcowboy.client.requests"])
	require.True(t, names["teamcowboy.client.duration"])
}
