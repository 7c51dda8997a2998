// Package config loads the CLI configuration from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coachpo/teamcowboy/errs"
	"github.com/coachpo/teamcowboy/internal/telemetry"
)

// Environment variables consulted after the file is read.
const (
	EnvPublicKey   = "TEAMCOWBOY_PUBLIC_KEY"
	EnvPrivateKey  = "TEAMCOWBOY_PRIVATE_KEY"
	EnvEndpoint    = "TEAMCOWBOY_ENDPOINT"
	EnvDatabaseURL = "TEAMCOWBOY_DATABASE_URL"
)

// Nonce strategies.
const (
	NonceLegacy  = "legacy"
	NonceCounter = "counter"
)

// Duration accepts Go duration strings ("10s") or bare integers meaning seconds.
type Duration time.Duration

// UnmarshalYAML parses the scalar form of a Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*d = 0
		return nil
	}
	text := strings.TrimSpace(node.Value)
	if text == "" {
		*d = 0
		return nil
	}
	if parsed, err := time.ParseDuration(text); err == nil {
		*d = Duration(parsed)
		return nil
	}
	var secs int64
	if err := node.Decode(&secs); err != nil {
		return fmt.Errorf("invalid duration %q", node.Value)
	}
	*d = Duration(time.Duration(secs) * time.Second)
	return nil
}

// MarshalYAML renders the duration in Go syntax.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// CredentialsConfig holds the API key pair.
type CredentialsConfig struct {
	PublicKey  string `yaml:"publicKey"`
	PrivateKey string `yaml:"privateKey"`
}

// APIConfig controls request signing and transport.
type APIConfig struct {
	Endpoint  string   `yaml:"endpoint"`
	HTTPSOnly bool     `yaml:"httpsOnly"`
	Timeout   Duration `yaml:"timeout"`
	Algorithm string   `yaml:"algorithm"`
	Nonce     string   `yaml:"nonce"`
	RateLimit float64  `yaml:"rateLimit"`
	Burst     int      `yaml:"burst"`
	Retries   uint     `yaml:"retries"`
}

// TelemetryConfig maps onto telemetry.Config.
type TelemetryConfig struct {
	Enabled        bool     `yaml:"enabled"`
	OTLPEndpoint   string   `yaml:"otlpEndpoint"`
	OTLPInsecure   bool     `yaml:"otlpInsecure"`
	ServiceName    string   `yaml:"serviceName"`
	Environment    string   `yaml:"environment"`
	MetricInterval Duration `yaml:"metricInterval"`
}

// DatabaseConfig controls the snapshot store used by sync.
type DatabaseConfig struct {
	DSN           string `yaml:"dsn"`
	MaxConns      int32  `yaml:"maxConns"`
	RunMigrations bool   `yaml:"runMigrations"`
}

// SyncConfig bounds the sync fan-out.
type SyncConfig struct {
	Concurrency int      `yaml:"concurrency"`
	EventWindow Duration `yaml:"eventWindow"`
}

// Config is the complete CLI configuration.
type Config struct {
	Credentials CredentialsConfig `yaml:"credentials"`
	API         APIConfig         `yaml:"api"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Database    DatabaseConfig    `yaml:"database"`
	Sync        SyncConfig        `yaml:"sync"`
}

// Default returns a configuration with every optional field populated.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	c.API.Endpoint = strings.TrimSpace(c.API.Endpoint)
	if c.API.Endpoint == "" {
		c.API.Endpoint = "api.teamcowboy.com/v1/"
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = Duration(10 * time.Second)
	}
	if c.API.Algorithm == "" {
		c.API.Algorithm = "sha1"
	}
	c.API.Nonce = strings.ToLower(strings.TrimSpace(c.API.Nonce))
	if c.API.Nonce == "" {
		c.API.Nonce = NonceLegacy
	}
	if c.API.RateLimit > 0 && c.API.Burst <= 0 {
		c.API.Burst = 1
	}
	if c.API.Retries == 0 {
		c.API.Retries = 3
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "teamcowboy"
	}
	if c.Telemetry.OTLPEndpoint == "" {
		c.Telemetry.OTLPEndpoint = "localhost:4318"
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = "development"
	}
	if c.Telemetry.MetricInterval <= 0 {
		c.Telemetry.MetricInterval = Duration(30 * time.Second)
	}
	if c.Database.MaxConns <= 0 {
		c.Database.MaxConns = 4
	}
	if c.Sync.Concurrency <= 0 {
		c.Sync.Concurrency = 4
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvPublicKey); ok {
		c.Credentials.PublicKey = v
	}
	if v, ok := lookup(EnvPrivateKey); ok {
		c.Credentials.PrivateKey = v
	}
	if v, ok := lookup(EnvEndpoint); ok && strings.TrimSpace(v) != "" {
		c.API.Endpoint = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvDatabaseURL); ok && strings.TrimSpace(v) != "" {
		c.Database.DSN = strings.TrimSpace(v)
	}
}

// Load reads, overrides from the environment and validates the file at path.
func Load(path string) (Config, error) {
	cfg, err := read(path)
	if err != nil {
		return Config{}, err
	}
	return finish(cfg)
}

// LoadOrDefault behaves like Load but starts from Default when path is empty
// or the file does not exist.
func LoadOrDefault(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return finish(Config{})
	}
	cfg, err := read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return finish(Config{})
	}
	if err != nil {
		return Config{}, err
	}
	return finish(cfg)
}

// Parse decodes YAML from r without consulting the environment.
func Parse(r io.Reader) (Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Config{}, configError("read config", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, configError("unmarshal config", err)
	}
	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

func read(path string) (Config, error) {
	file, err := os.Open(filepath.Clean(strings.TrimSpace(path))) // #nosec G304 -- path is operator controlled.
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	raw, err := io.ReadAll(file)
	if err != nil {
		return Config{}, configError("read config", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, configError("unmarshal config", err)
	}
	return cfg, nil
}

func finish(cfg Config) (Config, error) {
	cfg.applyEnv(os.LookupEnv)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks structural settings. Credentials are checked when the client is built.
func (c Config) Validate() error {
	if strings.Contains(c.API.Endpoint, "://") {
		return configError("api endpoint must not include a scheme", nil)
	}
	if c.API.Timeout <= 0 {
		return configError("api timeout must be >0", nil)
	}
	switch c.API.Nonce {
	case NonceLegacy, NonceCounter:
	default:
		return configError(fmt.Sprintf("api nonce %q unsupported", c.API.Nonce), nil)
	}
	if c.API.RateLimit < 0 {
		return configError("api rateLimit must be >=0", nil)
	}
	if c.Sync.Concurrency <= 0 {
		return configError("sync concurrency must be >0", nil)
	}
	if c.Sync.EventWindow.Std() < 0 {
		return configError("sync eventWindow must not be negative", nil)
	}
	if c.Database.MaxConns <= 0 {
		return configError("database maxConns must be >0", nil)
	}
	return nil
}

// TelemetryConfig converts the telemetry section for telemetry.NewProvider.
func (c Config) TelemetryConfig() telemetry.Config {
	base := telemetry.DefaultConfig()
	base.Enabled = c.Telemetry.Enabled
	base.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	base.OTLPInsecure = c.Telemetry.OTLPInsecure
	base.ServiceName = c.Telemetry.ServiceName
	base.Environment = c.Telemetry.Environment
	base.MetricInterval = c.Telemetry.MetricInterval.Std()
	return base
}

func configError(msg string, cause error) error {
	opts := []errs.Option{errs.WithMessage(msg)}
	if cause != nil {
		opts = append(opts, errs.WithCause(cause))
	}
	return errs.New("config", errs.CodeConfig, opts...)
}
