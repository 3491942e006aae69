package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jsamuelsen/oracle/internal/adapters/clients"
	"github.com/jsamuelsen/oracle/internal/adapters/decks"
	"github.com/jsamuelsen/oracle/internal/adapters/llm/gemini"
	"github.com/jsamuelsen/oracle/internal/adapters/llm/openai"
	"github.com/jsamuelsen/oracle/internal/platform/config"
	"github.com/jsamuelsen/oracle/internal/platform/logging"
	"github.com/jsamuelsen/oracle/internal/platform/metrics"
	"github.com/jsamuelsen/oracle/internal/platform/telemetry"
	"github.com/jsamuelsen/oracle/internal/ports"
)

// flushTimeout bounds the metrics push and telemetry shutdown at exit.
const flushTimeout = 5 * time.Second

// environment is everything a command needs, built once per run.
type environment struct {
	cfg       *config.Config
	logger    *slog.Logger
	telemetry *telemetry.Provider
	decks     *decks.EmbeddedStore
	recorder  *metrics.Recorder
	pusher    *metrics.Pusher
	gateway   *metrics.Gateway
}

// bootstrap loads configuration and starts logging, telemetry and metrics.
// With needCredential set, a missing provider key fails here, before any
// reading logic runs.
func (c *cli) bootstrap(ctx context.Context, needCredential bool) (*environment, error) {
	// 1. Load and validate configuration (fail fast)
	cfg, err := config.LoadDir(c.configDir, c.profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if c.debug {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if needCredential {
		if err := cfg.RequireCredential(); err != nil {
			return nil, err
		}
	}

	// 2. Initialize logging
	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, c.stderr)
	logging.SetDefault(logger)

	logger.Debug("starting",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("profile", cfg.App.Profile),
		slog.String("provider", cfg.Provider.Name),
		slog.String("model", cfg.Provider.Model),
	)

	// 3. Initialize telemetry (noop if disabled)
	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		Insecure:     cfg.Telemetry.Insecure,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Profile:      cfg.App.Profile,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	logger.Debug("telemetry initialized", slog.Bool("enabled", tel.Enabled()))

	env := &environment{
		cfg:       cfg,
		logger:    logger,
		telemetry: tel,
		decks:     decks.NewEmbeddedStore(),
		recorder:  metrics.NewRecorder(),
	}

	// 4. Metrics gateway (optional)
	if cfg.Metrics.PushURL != "" {
		gatewayClient, err := clients.New(&clients.Config{
			BaseURL:     cfg.Metrics.PushURL,
			ServiceName: metrics.GatewayServiceName,
			Timeout:     flushTimeout,
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating metrics client: %w", err)
		}

		env.pusher = metrics.NewPusher(gatewayClient, env.recorder, cfg.Metrics.PushURL, cfg.Metrics.Job, hostname())
		env.gateway = metrics.NewGateway(gatewayClient)
	}

	return env, nil
}

// newInterpreter builds the configured provider on an instrumented HTTP client.
// The returned checker probes the same provider.
func (e *environment) newInterpreter(ctx context.Context) (ports.Interpreter, ports.HealthChecker, error) {
	provider := e.cfg.Provider

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     provider.BaseURL,
		ServiceName: provider.Name,
		Timeout:     e.cfg.Client.Timeout,
		Logger:      e.logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s client: %w", provider.Name, err)
	}

	switch provider.Name {
	case config.ProviderGemini:
		client, err := gemini.New(ctx, gemini.Config{
			APIKey:     provider.APIKey,
			Model:      provider.Model,
			BaseURL:    provider.BaseURL,
			HTTPClient: httpClient.HTTPClient(),
		})
		if err != nil {
			return nil, nil, err
		}

		return client, client, nil

	case config.ProviderOpenAI:
		client, err := openai.New(openai.Config{
			APIKey:     provider.APIKey,
			Model:      provider.Model,
			BaseURL:    provider.BaseURL,
			HTTPClient: httpClient.HTTPClient(),
		})
		if err != nil {
			return nil, nil, err
		}

		return client, client, nil

	default:
		return nil, nil, fmt.Errorf("unknown provider %q", provider.Name)
	}
}

// close pushes metrics and flushes telemetry. Failures are logged only.
func (e *environment) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
	defer cancel()

	if e.pusher != nil {
		e.pusher.PushAndLog(ctx)
	}

	if err := e.telemetry.Shutdown(ctx); err != nil {
		e.logger.Warn("telemetry shutdown error", slog.Any("error", err))
	}
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}

	return name
}
