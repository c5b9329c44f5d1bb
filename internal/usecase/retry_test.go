package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/zkybank/zkybank/internal/domain"
	"github.com/zkybank/zkybank/internal/infrastructure/metrics"
)

func newTestRetrier() *ConflictRetrier {
	r := NewConflictRetrier(zerolog.Nop())
	r.initialInterval = 1 * time.Millisecond
	r.maxInterval = 2 * time.Millisecond

	return r
}

func TestConflictRetrier_RetriesOnConflict(t *testing.T) {
	r := newTestRetrier()

	attempts := 0
	err := r.Run(context.Background(), "test", func() error {
		attempts++
		if attempts < 2 {
			return domain.ErrConcurrencyConflict
		}

		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}

	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestConflictRetrier_BoundedAttempts(t *testing.T) {
	r := newTestRetrier()

	attempts := 0
	err := r.Run(context.Background(), "test", func() error {
		attempts++
		return domain.ErrConcurrencyConflict
	})

	if !errors.Is(err, domain.ErrConcurrencyConflict) {
		t.Fatalf("expected ErrConcurrencyConflict after exhausting attempts, got %v", err)
	}

	if attempts != DefaultMaxAttempts {
		t.Fatalf("expected %d attempts, got %d", DefaultMaxAttempts, attempts)
	}
}

func TestConflictRetrier_StopsOnPermanentError(t *testing.T) {
	r := newTestRetrier()

	permanent := errors.New("storage down")

	attempts := 0
	err := r.Run(context.Background(), "test", func() error {
		attempts++
		return permanent
	})

	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}

	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestConflictRetrier_BusinessErrorsNotRetried(t *testing.T) {
	r := newTestRetrier()

	attempts := 0
	err := r.Run(context.Background(), "test", func() error {
		attempts++
		return domain.ErrInsufficientFunds
	})

	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestConflictRetrier_RecordsMetrics(t *testing.T) {
	m := metrics.NewForTesting()
	r := newTestRetrier().WithMetrics(m)

	_ = r.Run(context.Background(), "transfer", func() error {
		return domain.ErrConcurrencyConflict
	})

	retries := testutil.ToFloat64(m.ConflictRetries.WithLabelValues("transfer"))
	if retries != float64(DefaultMaxAttempts-1) {
		t.Fatalf("expected %d recorded retries, got %v", DefaultMaxAttempts-1, retries)
	}

	exhausted := testutil.ToFloat64(m.ConflictsExhausted.WithLabelValues("transfer"))
	if exhausted != 1 {
		t.Fatalf("expected 1 recorded exhaustion, got %v", exhausted)
	}
}

func TestConflictRetrier_WithMaxAttempts(t *testing.T) {
	r := newTestRetrier().WithMaxAttempts(5)

	attempts := 0
	_ = r.Run(context.Background(), "test", func() error {
		attempts++
		return domain.ErrConcurrencyConflict
	})

	if attempts != 5 {
		t.Fatalf("expected 5 attempts, got %d", attempts)
	}
}
