// Package config loads the service configuration from defaults, an optional
// YAML file, a .env file and the environment, in that order of precedence.
package config

import (
	"bytes"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/argo-pulse/internal/insight"
	"github.com/rxtech-lab/argo-pulse/internal/stream"
	"github.com/rxtech-lab/argo-pulse/internal/version"
	"github.com/rxtech-lab/argo-pulse/pkg/errors"
	"github.com/rxtech-lab/argo-pulse/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-pulse/pkg/schema"
)

// EnvPrefix prefixes every environment variable read by Load, e.g. PULSE_LOG_LEVEL.
const EnvPrefix = "PULSE"

// Unprefixed variables that may carry the Gemini key.
const (
	GeminiAPIKeyEnv = "GEMINI_API_KEY"
	LegacyAPIKeyEnv = "API_KEY"
)

// Config is the complete service configuration.
type Config struct {
	// Version is the argo-pulse version the file was written for
	Version  string `json:"version,omitempty" yaml:"version" jsonschema:"title=Version,description=argo-pulse version this config was written for"`
	LogLevel string `json:"logLevel" yaml:"log_level" split_words:"true" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error,default=info" validate:"required,oneof=debug info warn error"`
	// Timezone is used for chart labels
	Timezone string `json:"timezone" yaml:"timezone" jsonschema:"title=Timezone,description=IANA zone used for chart labels,default=UTC" validate:"required"`
	// DegradeOnStreamFailure switches LIVE to FALLBACK when the trade feed fails
	DegradeOnStreamFailure bool `json:"degradeOnStreamFailure" yaml:"degrade_on_stream_failure" split_words:"true" jsonschema:"title=Degrade On Stream Failure,default=true"`

	Server  ServerConfig           `json:"server" yaml:"server"`
	History provider.HistoryConfig `json:"history" yaml:"history"`
	Feed    provider.FeedConfig    `json:"feed" yaml:"feed"`
	Insight InsightConfig          `json:"insight" yaml:"insight"`
}

// ServerConfig configures the HTTP boundary.
type ServerConfig struct {
	Address           string        `json:"address" yaml:"address" jsonschema:"title=Address,default=:8080" validate:"required"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"read_header_timeout" split_words:"true" jsonschema:"title=Read Header Timeout" validate:"min=0"`
	ShutdownTimeout   time.Duration `json:"shutdownTimeout" yaml:"shutdown_timeout" split_words:"true" jsonschema:"title=Shutdown Timeout" validate:"min=0"`
}

// InsightConfig configures the AI insight pipeline. An empty APIKey disables model calls.
type InsightConfig struct {
	APIKey  string        `json:"apiKey,omitempty" yaml:"api_key" split_words:"true" jsonschema:"title=API Key,description=Gemini API key" keychain:"true"`
	Model   string        `json:"model" yaml:"model" jsonschema:"title=Model,default=gemini-2.5-flash" validate:"required"`
	Timeout time.Duration `json:"timeout" yaml:"timeout" jsonschema:"title=Timeout,description=Bound on one model call" validate:"min=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version:                "",
		LogLevel:               "info",
		Timezone:               "UTC",
		DegradeOnStreamFailure: true,
		Server: ServerConfig{
			Address:           ":8080",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   5 * time.Second,
		},
		History: provider.HistoryConfig{
			Provider:      provider.ProviderCoinGecko,
			BaseURL:       "",
			Timeout:       15 * time.Second,
			PolygonApiKey: "",
		},
		Feed: provider.FeedConfig{
			URL:              stream.DefaultFeedURL,
			Throttle:         stream.DefaultThrottle,
			HandshakeTimeout: 10 * time.Second,
		},
		Insight: InsightConfig{
			APIKey:  "",
			Model:   insight.DefaultModelName,
			Timeout: insight.DefaultTimeout,
		},
	}
}

// Load builds the configuration. path may be empty to skip the YAML file.
// envFiles are passed to godotenv; with none given ".env" is tried. Missing
// env files are ignored and existing environment variables are never overridden.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	// .env is optional
	_ = godotenv.Load(envFiles...)

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read environment", err)
	}

	cfg.applyKeyFallback()

	if err := version.CheckConfigCompatibility(version.GetVersion(), cfg.Version); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(c); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config file %s", path)
	}

	return nil
}

// applyKeyFallback reads the unprefixed key variables when no key was configured.
func (c *Config) applyKeyFallback() {
	if c.Insight.APIKey != "" {
		return
	}

	for _, name := range []string{GeminiAPIKeyEnv, LegacyAPIKeyEnv} {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			c.Insight.APIKey = v

			return
		}
	}
}

// Validate checks every field, including the nested provider configs.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid timezone %q", c.Timezone)
	}

	return nil
}

// Location returns the configured timezone, or UTC when it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

// Schema returns the JSON schema of the configuration.
func Schema() (string, error) {
	//nolint:exhaustruct // Empty struct is intentional for schema generation
	return schema.ToIndentedJSONSchema(Config{})
}

// SecretFields returns the json names of the fields holding credentials.
func SecretFields() []string {
	//nolint:exhaustruct // Empty struct is intentional for field introspection
	fields := schema.GetKeychainFields(InsightConfig{})

	return append(fields, provider.GetKeychainFields()...)
}
