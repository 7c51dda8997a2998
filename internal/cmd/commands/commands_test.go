package commands

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/require"

	"github.com/coachpo/teamcowboy/internal/cmd/base"
	"github.com/coachpo/teamcowboy/internal/config"
)

type fixture struct {
	ui      *cli.MockUi
	config  string
	methods atomic.Value
	calls   atomic.Int32
}

func newFixture(t *testing.T, bodies map[string]string) *fixture {
	t.Helper()
	fx := &fixture{ui: cli.NewMockUi()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fx.calls.Add(1)
		method := r.FormValue("method")
		fx.methods.Store(method)
		body, ok := bodies[method]
		if !ok {
			body = `{"success": false, "requestSecs": 0.01, "body": {"errorCode": "Unknown", "httpResponse": 404, "message": "no such method"}}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	endpoint := strings.TrimPrefix(srv.URL, "http://") + "/v1"
	fx.config = filepath.Join(t.TempDir(), "teamcowboy.yaml")
	require.NoError(t, os.WriteFile(fx.config, []byte("api:\n  endpoint: "+endpoint+"\n  retries: 1\n"), 0o600))

	t.Setenv(config.EnvPublicKey, "pub")
	t.Setenv(config.EnvPrivateKey, "priv")
	t.Setenv(base.EnvUserToken, "")
	return fx
}

func (fx *fixture) base() *base.Command {
	return base.NewCommand(hclog.NewNullLogger(), fx.ui)
}

func (fx *fixture) lastMethod() string {
	v, _ := fx.methods.Load().(string)
	return v
}

func TestTeamsCommandPrintsPayload(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"User_GetTeams": `{"success": true, "requestSecs": 0.01, "body": [{"teamId": 9, "name": "Otters"}]}`,
	})
	cmd := &TeamsCommand{Command: fx.base()}

	code := cmd.Run([]string{"-config", fx.config, "-token", "tok"})
	require.Equal(t, 0, code, fx.ui.ErrorWriter.String())
	require.Equal(t, "User_GetTeams", fx.lastMethod())
	require.Contains(t, fx.ui.OutputWriter.String(), `"name": "Otters"`)
}

func TestAPIFailureExitsWithTwo(t *testing.T) {
	fx := newFixture(t, nil)
	cmd := &TeamCommand{Command: fx.base()}

	code := cmd.Run([]string{"-config", fx.config, "-token", "tok", "-team", "3"})
	require.Equal(t, 2, code)
	require.Equal(t, "Team_Get", fx.lastMethod())
	require.Contains(t, fx.ui.ErrorWriter.String(), "Unknown")
}

func TestTokenFallsBackToEnvironment(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"Team_GetSeasons": `{"success": true, "requestSecs": 0.01, "body": []}`,
	})
	t.Setenv(base.EnvUserToken, "from-env")
	cmd := &SeasonsCommand{Command: fx.base()}

	require.Equal(t, 0, cmd.Run([]string{"-config", fx.config, "-team", "3"}), fx.ui.ErrorWriter.String())
}

func TestMissingTokenNeverCallsTheService(t *testing.T) {
	fx := newFixture(t, nil)
	cmd := &TeamsCommand{Command: fx.base()}

	require.Equal(t, 1, cmd.Run([]string{"-config", fx.config}))
	require.Contains(t, fx.ui.ErrorWriter.String(), base.EnvUserToken)
	require.Zero(t, fx.calls.Load())
}

func TestFlagValidation(t *testing.T) {
	fx := newFixture(t, nil)
	cases := map[string]struct {
		cmd  cli.Command
		args []string
		want string
	}{
		"team required":      {&TeamCommand{Command: fx.base()}, nil, "-team is required"},
		"event required":     {&EventCommand{Command: fx.base()}, []string{"-team", "1"}, "-event is required"},
		"rsvp status":        {&RSVPCommand{Command: fx.base()}, []string{"-team", "1", "-event", "2"}, "-status is required"},
		"events team-only":   {&EventsCommand{Command: fx.base()}, []string{"-qty", "5"}, "require -team"},
		"events bad date":    {&EventsCommand{Command: fx.base()}, []string{"-from", "tomorrow"}, "YYYY-MM-DD"},
		"events window":      {&EventsCommand{Command: fx.base()}, []string{"-from", "2024-05-02", "-to", "2024-05-01"}, "-to must not be before -from"},
		"token username":     {&TokenCommand{Command: fx.base()}, nil, "-username is required"},
		"unknown flag":       {&TeamsCommand{Command: fx.base()}, []string{"-bogus"}, "error parsing flags"},
		"attendance missing": {&AttendanceCommand{Command: fx.base()}, []string{"-event", "2"}, "-team is required"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			fx.ui.ErrorWriter.Reset()
			args := append([]string{"-config", fx.config, "-token", "tok"}, tc.args...)
			if _, ok := tc.cmd.(*TokenCommand); ok {
				args = append([]string{"-config", fx.config}, tc.args...)
			}
			require.Equal(t, 1, tc.cmd.Run(args))
			require.Contains(t, fx.ui.ErrorWriter.String(), tc.want)
		})
	}
	require.Zero(t, fx.calls.Load())
}

func TestEventsRoutesByTeam(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"Team_GetEvents":     `{"success": true, "requestSecs": 0.01, "body": []}`,
		"User_GetTeamEvents": `{"success": true, "requestSecs": 0.01, "body": []}`,
	})

	cmd := &EventsCommand{Command: fx.base()}
	require.Equal(t, 0, cmd.Run([]string{"-config", fx.config, "-token", "tok", "-team", "4", "-qty", "2"}))
	require.Equal(t, "Team_GetEvents", fx.lastMethod())

	cmd = &EventsCommand{Command: fx.base()}
	require.Equal(t, 0, cmd.Run([]string{"-config", fx.config, "-token", "tok", "-from", "2024-05-01"}))
	require.Equal(t, "User_GetTeamEvents", fx.lastMethod())
}

func TestNextEventPrintsNull(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"User_GetNextTeamEvent": `{"success": true, "requestSecs": 0.01, "body": null}`,
	})
	cmd := &NextEventCommand{Command: fx.base()}

	require.Equal(t, 0, cmd.Run([]string{"-config", fx.config, "-token", "tok"}))
	require.Equal(t, "null", strings.TrimSpace(fx.ui.OutputWriter.String()))
}

func TestPingUsesPostWhenAsked(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"Test_PostRequest": `{"success": true, "requestSecs": 0.01, "body": "hello"}`,
	})
	cmd := &PingCommand{Command: fx.base()}

	require.Equal(t, 0, cmd.Run([]string{"-config", fx.config, "-post", "-param", "hello"}))
	require.Equal(t, "Test_PostRequest", fx.lastMethod())
	require.Contains(t, fx.ui.OutputWriter.String(), `"hello"`)
}

func TestSyncRequiresDatabase(t *testing.T) {
	fx := newFixture(t, nil)
	t.Setenv(config.EnvDatabaseURL, "")
	cmd := &SyncCommand{Command: fx.base()}

	require.Equal(t, 1, cmd.Run([]string{"-config", fx.config, "-token", "tok"}))
	require.Contains(t, fx.ui.ErrorWriter.String(), "database.dsn")
	require.Zero(t, fx.calls.Load())
}

func TestFactoriesBuildEveryCommand(t *testing.T) {
	ui := cli.NewMockUi()
	for name, factory := range Factories(hclog.NewNullLogger(), ui, "1.2.3") {
		cmd, err := factory()
		require.NoError(t, err, name)
		require.NotEmpty(t, cmd.Synopsis(), name)
		require.Contains(t, cmd.Help(), "Usage: teamcowboy "+name, name)
	}
}

func TestVersionCommand(t *testing.T) {
	ui := cli.NewMockUi()
	cmd := &VersionCommand{Command: base.NewCommand(hclog.NewNullLogger(), ui), Version: "1.2.3"}
	require.Equal(t, 0, cmd.Run(nil))
	require.Equal(t, "1.2.3\n", ui.OutputWriter.String())
}
