package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	clog "github.com/itsrayland/pwx/pkg/log"
	"github.com/itsrayland/pwx/pkg/retry"
)

// ULM adapts the unified language+vision model placeholder REST
// endpoint. The wire contract is deliberately minimal: POST JSON,
// get JSON or text back.
type ULM struct {
	apiKey   string
	baseURL  string
	http     *http.Client
	limiter  *retry.RateLimiter
	retryCfg retry.Config
}

// NewULM builds the adapter. An empty apiKey is allowed; calls fail
// with ErrNotConfigured instead of attempting a request.
func NewULM(apiKey, baseURL string, limiter *retry.RateLimiter, retryCfg retry.Config) *ULM {
	return &ULM{
		apiKey:   apiKey,
		baseURL:  baseURL,
		http:     &http.Client{Timeout: 120 * time.Second},
		limiter:  limiter,
		retryCfg: retryCfg,
	}
}

func (u *ULM) Name() string { return "ulm" }

// Validate checks the credential only. The placeholder endpoint has
// no cheap health call, so no round-trip is attempted.
func (u *ULM) Validate(ctx context.Context) error {
	if u.apiKey == "" {
		return fmt.Errorf("ulm: %w", ErrNotConfigured)
	}
	clog.Debug("ulm credential present, skipping round-trip validation")
	return nil
}

type ulmResponse struct {
	Content string `json:"content"`
}

// Execute posts one prompt to the generate endpoint and returns the
// content field, or the raw body when the reply is not JSON.
func (u *ULM) Execute(ctx context.Context, prompt string, opts *Options) (string, error) {
	if u.apiKey == "" {
		return "", fmt.Errorf("ulm: %w", ErrNotConfigured)
	}
	if opts == nil {
		opts = &Options{}
	}

	if err := u.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	body := map[string]any{"prompt": prompt}
	if opts.MaxTokens > 0 {
		body["max_tokens"] = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		body["temperature"] = opts.Temperature
	}
	for k, v := range opts.AdditionalParams {
		body[k] = v
	}

	return retry.Do(ctx, u.retryCfg, func() (string, error) {
		payload, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("marshal request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/generate", bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+u.apiKey)

		resp, err := u.http.Do(req)
		if err != nil {
			return "", retry.Retryable(&ProviderError{Provider: "ulm", Err: err})
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", &ProviderError{Provider: "ulm", Err: err}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			perr := &ProviderError{
				Provider: "ulm",
				Status:   resp.StatusCode,
				Err:      fmt.Errorf("%s", resp.Status),
			}
			if resp.StatusCode >= 500 {
				return "", retry.Retryable(perr)
			}
			return "", perr
		}

		var parsed ulmResponse
		if err := json.Unmarshal(data, &parsed); err == nil && parsed.Content != "" {
			return parsed.Content, nil
		}
		return string(data), nil
	})
}
