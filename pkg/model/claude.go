package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/itsrayland/pwx/pkg/retry"
)

const defaultClaudeModel = "claude-3-sonnet-20240229"

// Claude adapts the Anthropic Messages API.
type Claude struct {
	client   anthropic.Client
	apiKey   string
	model    string
	limiter  *retry.RateLimiter
	retryCfg retry.Config
}

// NewClaude builds the adapter. An empty apiKey is allowed; calls
// fail with ErrNotConfigured instead of attempting a request.
func NewClaude(apiKey, model string, limiter *retry.RateLimiter, retryCfg retry.Config) *Claude {
	if model == "" {
		model = defaultClaudeModel
	}
	return &Claude{
		client:   anthropic.NewClient(option.WithAPIKey(apiKey)),
		apiKey:   apiKey,
		model:    model,
		limiter:  limiter,
		retryCfg: retryCfg,
	}
}

func (c *Claude) Name() string { return "claude" }

// Validate confirms the credential with a minimal round-trip.
func (c *Claude) Validate(ctx context.Context) error {
	_, err := c.Execute(ctx, "Hello", &Options{MaxTokens: 10})
	return err
}

// Execute sends one prompt and returns the first text block.
func (c *Claude) Execute(ctx context.Context, prompt string, opts *Options) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("claude: %w", ErrNotConfigured)
	}
	if opts == nil {
		opts = &Options{}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	model := c.model
	if opts.Model != "" {
		model = opts.Model
	}
	maxTokens := int64(opts.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 4000
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	return retry.Do(ctx, c.retryCfg, func() (string, error) {
		params := anthropic.MessageNewParams{
			Model:       anthropic.Model(model),
			MaxTokens:   maxTokens,
			Temperature: anthropic.Float(temperature),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		}
		if opts.SystemPrompt != "" {
			params.System = []anthropic.TextBlockParam{
				{Type: "text", Text: opts.SystemPrompt},
			}
		}

		message, err := c.client.Messages.New(ctx, params)
		if err != nil {
			perr := &ProviderError{Provider: "claude", Err: formatClaudeError(err, model)}
			if isRetryableProviderError(err) {
				return "", retry.Retryable(perr)
			}
			return "", perr
		}

		if len(message.Content) == 0 {
			return "", &ProviderError{Provider: "claude", Err: fmt.Errorf("no content in response")}
		}
		for _, block := range message.Content {
			if block.Type == "text" {
				return block.Text, nil
			}
		}
		return "", &ProviderError{Provider: "claude", Err: fmt.Errorf("no text content in response")}
	})
}

// isRetryableProviderError checks if an error should trigger a retry
// when retries are enabled.
func isRetryableProviderError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "rate_limit") ||
		strings.Contains(errStr, "overloaded") ||
		strings.Contains(errStr, "529") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "timeout")
}

// formatClaudeError converts API errors to actionable messages.
func formatClaudeError(err error, model string) error {
	if err == nil {
		return nil
	}
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication_error"):
		return fmt.Errorf("invalid API key. Check CLAUDE_API_KEY environment variable")
	case strings.Contains(errStr, "403") || strings.Contains(errStr, "permission_denied"):
		return fmt.Errorf("key does not have access to model %q", model)
	case strings.Contains(errStr, "404") || strings.Contains(errStr, "not_found"):
		return fmt.Errorf("model %q not found", model)
	case strings.Contains(errStr, "rate_limit"):
		return fmt.Errorf("rate limit exceeded for model %q", model)
	case strings.Contains(errStr, "overloaded") || strings.Contains(errStr, "529"):
		return fmt.Errorf("service overloaded, try again later")
	default:
		return err
	}
}
