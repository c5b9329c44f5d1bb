package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/zkybank/zkybank/internal/domain"
	"github.com/zkybank/zkybank/internal/infrastructure/metrics"
)

// Default retry settings for conflict-prone operations.
const (
	DefaultMaxAttempts     = 3
	defaultInitialInterval = 25 * time.Millisecond
	defaultMaxInterval     = 250 * time.Millisecond
)

// ConflictRetrier re-runs a whole transactional sequence when it fails with
// domain.ErrConcurrencyConflict. Every other error is permanent. Attempts are
// bounded; the last conflict is returned once they are exhausted.
type ConflictRetrier struct {
	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration
	logger          zerolog.Logger
	metrics         *metrics.Metrics // optional
}

// NewConflictRetrier creates a retrier with the default attempt bound.
func NewConflictRetrier(logger zerolog.Logger) *ConflictRetrier {
	return &ConflictRetrier{
		maxAttempts:     DefaultMaxAttempts,
		initialInterval: defaultInitialInterval,
		maxInterval:     defaultMaxInterval,
		logger:          logger,
	}
}

// WithMaxAttempts overrides the attempt bound.
func (r *ConflictRetrier) WithMaxAttempts(attempts int) *ConflictRetrier {
	if attempts > 0 {
		r.maxAttempts = attempts
	}

	return r
}

// WithMetrics enables retry and exhaustion counters.
func (r *ConflictRetrier) WithMetrics(m *metrics.Metrics) *ConflictRetrier {
	r.metrics = m

	return r
}

// Run executes op with exponential backoff between conflicting attempts.
func (r *ConflictRetrier) Run(ctx context.Context, operation string, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = 0

	attempt := 0

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}

		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return backoff.Permanent(err)
		}

		attempt++
		if attempt >= r.maxAttempts {
			if r.metrics != nil {
				r.metrics.ConflictsExhausted.WithLabelValues(operation).Inc()
			}

			return backoff.Permanent(err)
		}

		if r.metrics != nil {
			r.metrics.ConflictRetries.WithLabelValues(operation).Inc()
		}

		r.logger.Warn().
			Str("operation", operation).
			Int("attempt", attempt).
			Msg("concurrency conflict, retrying")

		return err
	}, backoff.WithContext(b, ctx))
}
