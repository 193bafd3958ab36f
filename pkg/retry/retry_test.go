package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		MaxRetries:  3,
		BaseDelay:   10 * time.Millisecond,
		MaxDelay:    100 * time.Millisecond,
		Multiplier:  2.0,
		JitterRatio: 0,
	}
}

func TestDoSuccess(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), testConfig(), func() (string, error) {
		calls++
		return "success", nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("expected 'success', got %q", result)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoRetryableError(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), testConfig(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", Retryable(errors.New("temporary error"))
		}
		return "success", nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("expected 'success', got %q", result)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoNonRetryableError(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), testConfig(), func() (string, error) {
		calls++
		return "", errors.New("fatal")
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), testConfig(), func() (int, error) {
		calls++
		return 0, Retryable(errors.New("still failing"))
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if IsRetryable(err) {
		t.Error("final error should be unwrapped from RetryableError")
	}
	if calls != 4 {
		t.Errorf("expected 4 calls (1 + 3 retries), got %d", calls)
	}
}

func TestOnceExecutesExactlyOnce(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Once(), func() (string, error) {
		calls++
		return "", Retryable(errors.New("throttled"))
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if calls != 1 {
		t.Errorf("Once() must not retry: expected 1 call, got %d", calls)
	}
}

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(10.0)
	if rl == nil {
		t.Fatal("expected non-nil rate limiter")
	}
	if rl.maxTokens != 10.0 {
		t.Errorf("expected maxTokens 10, got %f", rl.maxTokens)
	}
	if rl.refillRate != 10.0 {
		t.Errorf("expected refillRate 10, got %f", rl.refillRate)
	}
}

func TestRateLimiterWait(t *testing.T) {
	// Starts full: first 10 waits should be near-instant.
	rl := NewRateLimiter(10.0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("first 10 waits took too long: %v", elapsed)
	}
}

func TestRateLimiterWaitContextCancelled(t *testing.T) {
	rl := NewRateLimiter(1.0)

	// Drain the initial token.
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error draining token: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rl.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
