// Package model provides uniform adapters over AI provider HTTP APIs.
//
// Every adapter exposes Validate and Execute. Execute sends exactly
// one logical request per call; retries only happen when the
// workstation config explicitly enables them.
package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotConfigured indicates a missing provider API key. Adapters
// return it (wrapped with the provider name) before any network I/O.
var ErrNotConfigured = errors.New("API key not configured")

// ErrUnknownModel indicates a request for a provider the manager
// does not know about.
var ErrUnknownModel = errors.New("unknown model")

// ProviderError wraps an HTTP failure or non-2xx response from a
// provider. Status is zero when the request never got a response.
type ProviderError struct {
	Provider string
	Status   int
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s API error (status %d): %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Options tunes a single Execute call. Zero values fall back to the
// adapter's configured defaults.
type Options struct {
	Model            string
	MaxTokens        int
	Temperature      float64
	SystemPrompt     string
	AdditionalParams map[string]any
}

// Adapter is the common contract over one AI provider.
type Adapter interface {
	// Name returns the registry name (claude, openai, ulm, gemini).
	Name() string
	// Validate performs a minimal round-trip to confirm the
	// configured credential works.
	Validate(ctx context.Context) error
	// Execute sends one prompt and returns the extracted text.
	Execute(ctx context.Context, prompt string, opts *Options) (string, error)
}

// Response is the tagged result of best-effort JSON parsing of a
// provider reply. Either Value is set (parsed) or only Raw is
// (unparsed); callers must branch on Parsed.
type Response struct {
	Value     map[string]any
	Raw       string
	Timestamp time.Time
}

// Parsed reports whether the provider reply decoded as JSON.
func (r Response) Parsed() bool {
	return r.Value != nil
}

// Payload returns the parsed value, or a wrapper that preserves the
// raw reply when parsing failed. The result is always persistable.
func (r Response) Payload() map[string]any {
	if r.Parsed() {
		return r.Value
	}
	return map[string]any{
		"rawResponse": r.Raw,
		"parsed":      false,
	}
}

// parseResponse attempts to decode raw as a JSON object. Failure is
// not an error: the caller gets the raw text back, tagged unparsed.
func parseResponse(raw string) Response {
	r := Response{Raw: raw, Timestamp: time.Now().UTC()}
	var value map[string]any
	if err := json.Unmarshal([]byte(raw), &value); err == nil {
		r.Value = value
	}
	return r
}
