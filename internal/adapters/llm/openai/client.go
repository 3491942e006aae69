// Package openai implements the interpretation port on any OpenAI-compatible
// chat completions endpoint.
package openai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/jsamuelsen/oracle/internal/adapters/clients/acl"
	"github.com/jsamuelsen/oracle/internal/domain"
	"github.com/jsamuelsen/oracle/internal/platform/logging"
	"github.com/jsamuelsen/oracle/internal/ports"
)

// ServiceName identifies this adapter in errors, logs and health checks.
const ServiceName = "openai"

// Config configures the OpenAI adapter.
type Config struct {
	APIKey string
	Model  string

	// BaseURL points at an OpenAI-compatible server. Empty uses api.openai.com.
	BaseURL string

	// HTTPClient carries requests. Nil uses the SDK default.
	HTTPClient *http.Client
}

// Client sends readings as a single chat completion.
type Client struct {
	api   openai.Client
	model string
}

// Compile-time interface checks.
var (
	_ ports.Interpreter   = (*Client)(nil)
	_ ports.HealthChecker = (*Client)(nil)
)

// New creates an OpenAI adapter. The SDK's built-in retries are disabled.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	if cfg.Model == "" {
		return nil, errors.New("openai model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Client{api: openai.NewClient(opts...), model: cfg.Model}, nil
}

// Interpret sends the system instruction and the draw as one chat completion.
func (c *Client) Interpret(ctx context.Context, prompt ports.Prompt) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.Content),
		},
	})
	if err != nil {
		return "", mapError(err, "interpret")
	}

	if len(resp.Choices) == 0 {
		return "", domain.NewUnavailableError(ServiceName, "empty choices")
	}

	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return "", domain.NewUnavailableError(ServiceName, "request refused: "+choice.Message.Refusal)
	}

	text := choice.Message.Content
	if strings.TrimSpace(text) == "" {
		return "", domain.NewUnavailableError(ServiceName, "empty response")
	}

	logging.FromContext(ctx).Debug("interpretation received",
		slog.String("model", c.model),
		slog.String("finish_reason", choice.FinishReason),
		slog.Int("length", len(text)),
	)

	return text, nil
}

// Name implements ports.HealthChecker.
func (c *Client) Name() string {
	return ServiceName
}

// Check retrieves the configured model.
func (c *Client) Check(ctx context.Context) error {
	if _, err := c.api.Models.Get(ctx, c.model); err != nil {
		return mapError(err, "model lookup")
	}

	return nil
}

// mapError translates SDK errors into domain errors.
func mapError(err error, operation string) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return acl.MapStatus(apiErr.StatusCode, apiErr.Message, ServiceName, operation)
	}

	return acl.MapClientError(err, ServiceName, operation)
}
