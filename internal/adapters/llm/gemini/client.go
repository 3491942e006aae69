// Package gemini implements the interpretation port on Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/jsamuelsen/oracle/internal/adapters/clients/acl"
	"github.com/jsamuelsen/oracle/internal/domain"
	"github.com/jsamuelsen/oracle/internal/platform/logging"
	"github.com/jsamuelsen/oracle/internal/ports"
)

// ServiceName identifies this adapter in errors, logs and health checks.
const ServiceName = "gemini"

// Config configures the Gemini adapter.
type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string

	// HTTPClient carries requests. Pass the instrumented client from
	// the clients package; nil uses the SDK's default client.
	HTTPClient *http.Client
}

// Client sends readings to Gemini's generateContent endpoint.
type Client struct {
	genai *genai.Client
	model string
}

// Compile-time interface checks.
var (
	_ ports.Interpreter   = (*Client)(nil)
	_ ports.HealthChecker = (*Client)(nil)
)

// New creates a Gemini adapter.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	if cfg.Model == "" {
		return nil, errors.New("gemini model is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Client{genai: client, model: cfg.Model}, nil
}

// Interpret sends the prompt as one generateContent call and returns the text.
func (c *Client) Interpret(ctx context.Context, prompt ports.Prompt) (string, error) {
	logger := logging.FromContext(ctx)

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt.Content), config)
	if err != nil {
		return "", mapError(err, "interpret")
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", domain.NewUnavailableError(ServiceName,
			fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason))
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", domain.NewUnavailableError(ServiceName, "empty response")
	}

	logger.Debug("interpretation received",
		slog.String("model", c.model),
		slog.Int("length", len(text)),
	)

	return text, nil
}

// Name implements ports.HealthChecker.
func (c *Client) Name() string {
	return ServiceName
}

// Check looks up the configured model, which proves the key and model are usable.
func (c *Client) Check(ctx context.Context) error {
	if _, err := c.genai.Models.Get(ctx, c.model, nil); err != nil {
		return mapError(err, "model lookup")
	}

	return nil
}

// mapError translates SDK errors into domain errors.
func mapError(err error, operation string) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return acl.MapStatus(apiErr.Code, apiErr.Message, ServiceName, operation)
	}

	return acl.MapClientError(err, ServiceName, operation)
}
