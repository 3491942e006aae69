// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. ORACLE_LOG_LEVEL.
const EnvPrefix = "ORACLE_"

// DefaultConfigDir is where base.yaml and profile files are looked up.
const DefaultConfigDir = "configs"

// Provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default configuration values.
const (
	// DefaultGeminiModel is used when provider.model is unset for Gemini.
	DefaultGeminiModel = "gemini-2.0-flash"

	// DefaultOpenAIModel is used when provider.model is unset for OpenAI.
	DefaultOpenAIModel = "gpt-4o-mini"

	// DefaultCheckTimeout bounds each probe of the check command.
	DefaultCheckTimeout = 10 * time.Second

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 10

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28
)

// ErrMissingCredential is returned when no API key is configured for the provider.
var ErrMissingCredential = errors.New("missing provider credential")

// credentialEnv names the conventional credential variable per provider.
var credentialEnv = map[string]string{
	ProviderGemini: "GEMINI_API_KEY",
	ProviderOpenAI: "OPENAI_API_KEY",
}

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Provider  ProviderConfig  `koanf:"provider"  validate:"required"`
	Client    ClientConfig    `koanf:"client"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Metrics   MetricsConfig   `koanf:"metrics"   validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name    string `koanf:"name"    validate:"required"`
	Version string `koanf:"version" validate:"required"`
	Profile string `koanf:"profile"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// ProviderConfig selects and authenticates the interpretation service.
type ProviderConfig struct {
	Name    string `koanf:"name"     validate:"required,oneof=gemini openai"`
	Model   string `koanf:"model"    validate:"required"`
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`
}

// ClientConfig contains outbound HTTP settings.
type ClientConfig struct {
	// Timeout bounds the interpretation call. Zero means no timeout.
	Timeout      time.Duration `koanf:"timeout"       validate:"min=0s"`
	CheckTimeout time.Duration `koanf:"check_timeout" validate:"min=0s"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,hostname_port"`
	Insecure     bool    `koanf:"insecure"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// MetricsConfig contains Prometheus Pushgateway settings.
type MetricsConfig struct {
	PushURL string `koanf:"push_url" validate:"omitempty,url"`
	Job     string `koanf:"job"      validate:"required"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":    "oracle",
		"app.version": "dev",
		"app.profile": "",

		"log.level":            "warn",
		"log.format":           "pretty",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/oracle.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"provider.name":     ProviderGemini,
		"provider.model":    "",
		"provider.api_key":  "",
		"provider.base_url": "",

		"client.timeout":       "0s",
		"client.check_timeout": DefaultCheckTimeout.String(),

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.insecure":      false,
		"telemetry.service_name":  "oracle",
		"telemetry.sampling_rate": 1.0,

		"metrics.push_url": "",
		"metrics.job":      "oracle",
	}
}

// Load loads configuration from DefaultConfigDir. See LoadDir.
func Load(profile string) (*Config, error) {
	return LoadDir(DefaultConfigDir, profile)
}

// LoadDir loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (ORACLE_ prefix)
//  2. Profile config file ({dir}/{profile}.yaml)
//  3. Base config file ({dir}/base.yaml)
//  4. Default values
//
// An empty provider.model is replaced by the provider's default model, and an
// empty provider.api_key is filled from the provider's conventional variable
// (GEMINI_API_KEY or OPENAI_API_KEY).
func LoadDir(dir, profile string) (*Config, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	err = loadFileIfExists(k, filepath.Join(dir, "base.yaml"))
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		err := loadFileIfExists(k, filepath.Join(dir, profile+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	err = k.Load(env.Provider(EnvPrefix, ".", envKeyMapper(k.Keys())), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.App.Profile == "" {
		cfg.App.Profile = profile
	}

	cfg.applyProviderDefaults()

	return &cfg, nil
}

// applyProviderDefaults fills the model and credential that depend on provider.name.
func (c *Config) applyProviderDefaults() {
	if c.Provider.Model == "" {
		switch c.Provider.Name {
		case ProviderGemini:
			c.Provider.Model = DefaultGeminiModel
		case ProviderOpenAI:
			c.Provider.Model = DefaultOpenAIModel
		}
	}

	if c.Provider.APIKey == "" {
		if name, ok := credentialEnv[c.Provider.Name]; ok {
			c.Provider.APIKey = os.Getenv(name)
		}
	}
}

// RequireCredential returns ErrMissingCredential when no API key is set.
func (c *Config) RequireCredential() error {
	if c.Provider.APIKey != "" {
		return nil
	}

	name, ok := credentialEnv[c.Provider.Name]
	if !ok {
		return fmt.Errorf("%w: set %sPROVIDER_API_KEY", ErrMissingCredential, EnvPrefix)
	}

	return fmt.Errorf("%w: set %s or %sPROVIDER_API_KEY", ErrMissingCredential, name, EnvPrefix)
}

// envKeyMapper maps ORACLE_PROVIDER_API_KEY to provider.api_key by matching
// against the known keys, so keys containing underscores survive. Unknown
// variables fall back to replacing every underscore with a dot.
func envKeyMapper(known []string) func(string) string {
	lookup := make(map[string]string, len(known))
	for _, key := range known {
		lookup[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(s string) string {
		name := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		if key, ok := lookup[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
