package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/itsrayland/pwx/pkg/config"
	clog "github.com/itsrayland/pwx/pkg/log"
	"github.com/itsrayland/pwx/pkg/retry"
)

// Manager holds the adapter registry and offers single and fan-out
// prompt execution.
type Manager struct {
	adapters map[string]Adapter
	order    []string
}

// NewManager wires up all adapters from the config. Providers with
// missing keys are still registered; their calls fail fast with
// ErrNotConfigured.
func NewManager(cfg *config.Config) *Manager {
	limiter := retry.NewRateLimiter(cfg.RequestsPerSecond)
	retryCfg := retry.Once()
	if cfg.MaxRetries > 0 {
		retryCfg = retry.DefaultConfig()
		retryCfg.MaxRetries = cfg.MaxRetries
	}

	m := &Manager{adapters: make(map[string]Adapter)}
	m.register(NewClaude(cfg.Keys.Claude, cfg.ClaudeModel, limiter, retryCfg))
	m.register(NewOpenAI(cfg.Keys.OpenAI, cfg.OpenAIModel, limiter, retryCfg))
	m.register(NewULM(cfg.Keys.ULM, cfg.ULMBaseURL, limiter, retryCfg))
	m.register(NewGemini(cfg.Keys.Gemini, cfg.GeminiModel, limiter))
	return m
}

func (m *Manager) register(a Adapter) {
	m.adapters[a.Name()] = a
	m.order = append(m.order, a.Name())
}

// Get returns the adapter registered under name.
func (m *Manager) Get(name string) (Adapter, error) {
	a, ok := m.adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return a, nil
}

// Names lists registered adapters in registration order.
func (m *Manager) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// ConnectionStatus reports one adapter's validation outcome.
type ConnectionStatus struct {
	Connected bool
	Err       error
}

// ValidateConnections checks every adapter. Failures are reported,
// not fatal: a workstation with one working provider is usable.
func (m *Manager) ValidateConnections(ctx context.Context) map[string]ConnectionStatus {
	results := make(map[string]ConnectionStatus, len(m.order))
	for _, name := range m.order {
		err := m.adapters[name].Validate(ctx)
		if err != nil {
			clog.Warn("provider validation failed", "provider", name, "error", err)
		} else {
			clog.Info("provider connected", "provider", name)
		}
		results[name] = ConnectionStatus{Connected: err == nil, Err: err}
	}
	return results
}

// ExecutePrompt runs one prompt on one named adapter.
func (m *Manager) ExecutePrompt(ctx context.Context, name, prompt string, opts *Options) (string, error) {
	a, err := m.Get(name)
	if err != nil {
		return "", err
	}
	return a.Execute(ctx, prompt, opts)
}

// MultiResult is one adapter's outcome from a fan-out execution.
type MultiResult struct {
	Success bool
	Result  string
	Err     error
}

// ExecutePromptMultiple issues the prompt to every named adapter
// concurrently and collects all outcomes, success or failure, before
// returning. No ordering is guaranteed between the calls; a hung
// call blocks the whole group.
func (m *Manager) ExecutePromptMultiple(ctx context.Context, names []string, prompt string, opts *Options) map[string]MultiResult {
	results := make(map[string]MultiResult, len(names))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			out, err := m.ExecutePrompt(ctx, name, prompt, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[name] = MultiResult{Success: false, Err: err}
				return
			}
			results[name] = MultiResult{Success: true, Result: out}
		}(name)
	}
	wg.Wait()

	return results
}
