package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForReturnsImmediatelyOnNonPositiveDuration(t *testing.T) {
	t.Parallel()

	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("expected no error for a zero duration, got %v", err)
	}
	if err := WaitFor(context.Background(), -time.Second); err != nil {
		t.Fatalf("expected no error for a negative duration, got %v", err)
	}
}

func TestWaitForCompletesTheSleep(t *testing.T) {
	var slept []time.Duration
	originalSleep := sleep
	sleep = func(d time.Duration) { slept = append(slept, d) }
	defer func() { sleep = originalSleep }()

	if err := WaitFor(context.Background(), 5*time.Second); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(slept) != 1 || slept[0] != 5*time.Second {
		t.Fatalf("expected a single 5s sleep, got %v", slept)
	}
}

func TestWaitForStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
