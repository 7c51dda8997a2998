// Package base holds the pieces shared by every CLI command.
package base

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/coachpo/teamcowboy/internal/config"
	"github.com/coachpo/teamcowboy/internal/observability"
	"github.com/coachpo/teamcowboy/internal/telemetry"
	"github.com/coachpo/teamcowboy/pkg/teamcowboy"
)

// EnvUserToken supplies -token when the flag is omitted.
const EnvUserToken = "TEAMCOWBOY_USER_TOKEN"

// Command is embedded by every CLI command.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	flagConfig string
	flagToken  string
	flagDebug  bool
}

// NewCommand constructs a Command.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{Log: log, UI: ui}
}

// FlagSet wraps flag.FlagSet with help rendering.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	return &FlagSet{FlagSet: f}
}

// Help renders the flag defaults for a command's Help text.
func (f *FlagSet) Help() string {
	var b strings.Builder
	b.WriteString("\n\nOptions:\n")
	f.VisitAll(func(fl *flag.Flag) {
		fmt.Fprintf(&b, "\n  -%s\n      %s", fl.Name, fl.Usage)
		if fl.DefValue != "" {
			fmt.Fprintf(&b, " (default %q)", fl.DefValue)
		}
		b.WriteString("\n")
	})
	return b.String()
}

// CommonFlags registers the flags shared by commands that call the API.
func (c *Command) CommonFlags(f *FlagSet, withToken bool) {
	f.StringVar(&c.flagConfig, "config", "", "Path to the YAML config file.")
	f.BoolVar(&c.flagDebug, "debug", false, "Log every API call.")
	if withToken {
		f.StringVar(&c.flagToken, "token", "", "User token. Defaults to $"+EnvUserToken+".")
	}
}

// Token returns the user token from -token or the environment.
func (c *Command) Token() (string, error) {
	token := strings.TrimSpace(c.flagToken)
	if token == "" {
		token = strings.TrimSpace(os.Getenv(EnvUserToken))
	}
	if token == "" {
		return "", fmt.Errorf("a user token is required: pass -token or set %s", EnvUserToken)
	}
	return token, nil
}

// Runtime bundles the configured client and telemetry provider.
type Runtime struct {
	Config    config.Config
	Client    *teamcowboy.Client
	Telemetry *telemetry.Provider
	Logger    observability.Logger
}

// Setup loads configuration and builds the client stack.
func (c *Command) Setup(ctx context.Context) (*Runtime, error) {
	cfg, err := config.LoadOrDefault(c.flagConfig)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if c.flagDebug {
		c.Log.SetLevel(hclog.Debug)
	}
	logger := observability.NewHCLogger(c.Log)
	observability.SetLogger(logger)

	provider, err := telemetry.NewProvider(ctx, cfg.TelemetryConfig())
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	opts := []teamcowboy.Option{
		teamcowboy.WithEndpoint(cfg.API.Endpoint),
		teamcowboy.WithHTTPSOnly(cfg.API.HTTPSOnly),
		teamcowboy.WithTimeout(cfg.API.Timeout.Std()),
		teamcowboy.WithAlgorithm(cfg.API.Algorithm),
		teamcowboy.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		teamcowboy.WithLogger(logger),
		teamcowboy.WithMeter(provider.Meter("teamcowboy")),
	}
	if cfg.API.Nonce == config.NonceCounter {
		opts = append(opts, teamcowboy.WithCounterNonce())
	}
	client, err := teamcowboy.New(teamcowboy.Credentials{
		PublicKey:  cfg.Credentials.PublicKey,
		PrivateKey: cfg.Credentials.PrivateKey,
	}, opts...)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, fmt.Errorf("create client: %w", err)
	}

	return &Runtime{Config: cfg, Client: client, Telemetry: provider, Logger: logger}, nil
}

// Close flushes telemetry.
func (r *Runtime) Close(ctx context.Context) error {
	return r.Telemetry.Shutdown(ctx)
}

// Output writes v as indented JSON to the UI.
func (c *Command) Output(v any) int {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		c.UI.Error(fmt.Sprintf("error encoding output: %v", err))
		return 1
	}
	c.UI.Output(string(out))
	return 0
}

// Report prints the success payload, or the API error, of resp and returns
// the exit code.
func Report[T any](c *Command, resp teamcowboy.Response[T], err error) int {
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if apiErr, failed := resp.Failure(); failed {
		c.UI.Error(fmt.Sprintf("api error %s (http %d): %s", apiErr.ErrorCode, apiErr.HTTPStatus, apiErr.Message))
		return 2
	}
	value, _ := resp.Success()
	return c.Output(value)
}

// ParseDate parses a YYYY-MM-DD flag value; empty yields nil.
func ParseDate(name, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(teamcowboy.DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("-%s: expected YYYY-MM-DD, got %q", name, value)
	}
	return &t, nil
}

// OptionalInt returns nil for values below zero, the flags' "unset" marker.
func OptionalInt(v int) *int {
	if v < 0 {
		return nil
	}
	return teamcowboy.Int(v)
}

// OptionalString returns nil for an empty value.
func OptionalString(v string) *string {
	if v == "" {
		return nil
	}
	return teamcowboy.String(v)
}
