package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/itsrayland/pwx/pkg/retry"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini adapts Google's Generative AI API. It is not part of any
// built-in workflow sequence but is available through the manager for
// direct prompt execution.
type Gemini struct {
	apiKey  string
	model   string
	limiter *retry.RateLimiter

	mu     sync.Mutex
	client *genai.Client
}

// NewGemini builds the adapter. The underlying client is created
// lazily on first use because construction requires a context.
func NewGemini(apiKey, model string, limiter *retry.RateLimiter) *Gemini {
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{
		apiKey:  apiKey,
		model:   model,
		limiter: limiter,
	}
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) ensureClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Err: err}
	}
	g.client = client
	return client, nil
}

// Validate confirms the credential with a minimal round-trip.
func (g *Gemini) Validate(ctx context.Context) error {
	_, err := g.Execute(ctx, "Hello", &Options{MaxTokens: 10})
	return err
}

// Execute sends one prompt and returns the first text part.
func (g *Gemini) Execute(ctx context.Context, prompt string, opts *Options) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("gemini: %w", ErrNotConfigured)
	}
	if opts == nil {
		opts = &Options{}
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	client, err := g.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	modelName := g.model
	if opts.Model != "" {
		modelName = opts.Model
	}
	m := client.GenerativeModel(modelName)
	if opts.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		m.SetTemperature(float32(opts.Temperature))
	}
	if opts.SystemPrompt != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(opts.SystemPrompt)},
		}
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ProviderError{Provider: "gemini", Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &ProviderError{Provider: "gemini", Err: fmt.Errorf("no content generated")}
	}

	if txt, ok := resp.Candidates[0].Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}
	return "", &ProviderError{Provider: "gemini", Err: fmt.Errorf("unexpected response format")}
}

// Close releases the underlying client, if one was created.
func (g *Gemini) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		_ = g.client.Close()
		g.client = nil
	}
}
