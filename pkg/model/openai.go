package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/itsrayland/pwx/pkg/retry"
)

const (
	defaultOpenAIModel   = "gpt-4o"
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAISystem  = "You are a helpful assistant specializing in technical specifications and code generation."
)

// OpenAI adapts the OpenAI Chat Completions API over plain HTTP.
type OpenAI struct {
	apiKey   string
	model    string
	baseURL  string
	http     *http.Client
	limiter  *retry.RateLimiter
	retryCfg retry.Config
}

// NewOpenAI builds the adapter. An empty apiKey is allowed; calls
// fail with ErrNotConfigured instead of attempting a request.
func NewOpenAI(apiKey, model string, limiter *retry.RateLimiter, retryCfg retry.Config) *OpenAI {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAI{
		apiKey:   apiKey,
		model:    model,
		baseURL:  defaultOpenAIBaseURL,
		http:     &http.Client{Timeout: 120 * time.Second},
		limiter:  limiter,
		retryCfg: retryCfg,
	}
}

func (o *OpenAI) Name() string { return "openai" }

// Validate confirms the credential with a minimal round-trip.
func (o *OpenAI) Validate(ctx context.Context) error {
	_, err := o.Execute(ctx, "Hello", &Options{MaxTokens: 10})
	return err
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Execute sends one chat completion request and returns the message
// content of the first choice.
func (o *OpenAI) Execute(ctx context.Context, prompt string, opts *Options) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("openai: %w", ErrNotConfigured)
	}
	if opts == nil {
		opts = &Options{}
	}

	if err := o.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	model := o.model
	if opts.Model != "" {
		model = opts.Model
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4000
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	system := opts.SystemPrompt
	if system == "" {
		system = defaultOpenAISystem
	}

	body := map[string]any{
		"model": model,
		"messages": []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}
	for k, v := range opts.AdditionalParams {
		body[k] = v
	}

	return retry.Do(ctx, o.retryCfg, func() (string, error) {
		payload, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("marshal request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+o.apiKey)

		resp, err := o.http.Do(req)
		if err != nil {
			return "", retry.Retryable(&ProviderError{Provider: "openai", Err: err})
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", &ProviderError{Provider: "openai", Err: err}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			perr := &ProviderError{
				Provider: "openai",
				Status:   resp.StatusCode,
				Err:      fmt.Errorf("%s", openAIErrorMessage(data, resp.Status)),
			}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return "", retry.Retryable(perr)
			}
			return "", perr
		}

		var parsed chatResponse
		if err := json.Unmarshal(data, &parsed); err != nil {
			return "", &ProviderError{Provider: "openai", Err: fmt.Errorf("decode response: %w", err)}
		}
		if len(parsed.Choices) == 0 {
			return "", &ProviderError{Provider: "openai", Err: fmt.Errorf("no choices in response")}
		}
		return parsed.Choices[0].Message.Content, nil
	})
}

// openAIErrorMessage extracts the API error message when present,
// falling back to the HTTP status line.
func openAIErrorMessage(data []byte, status string) string {
	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Error != nil {
		return parsed.Error.Message
	}
	return status
}
