package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"workshop/internal/pkg/errs"
)

const tracerName = "workshop/commands"

// ConflictRetrier reruns an operation that failed with errs.ErrStorageConflict,
// backing off exponentially. Every other error is returned at once.
//
// Example:
//
//	retrier := NewConflictRetrier(3, 50*time.Millisecond, logger)
//	err := retrier.Do(ctx, "advance", func(ctx context.Context) error {
//	    return handler.Handle(ctx, cmd)
//	})
type ConflictRetrier struct {
	attempts        int
	initialInterval time.Duration
	tracer          trace.Tracer
	logger          *slog.Logger
}

// NewConflictRetrier runs operations at most attempts times (at least once).
func NewConflictRetrier(attempts int, initialInterval time.Duration, logger *slog.Logger) ConflictRetrier {
	if attempts < 1 {
		attempts = 1
	}
	return ConflictRetrier{
		attempts:        attempts,
		initialInterval: initialInterval,
		tracer:          otel.Tracer(tracerName),
		logger:          logger.With("component", "conflict_retrier"),
	}
}

// WithTracer returns a copy that reports spans to tracer.
func (r ConflictRetrier) WithTracer(tracer trace.Tracer) ConflictRetrier {
	r.tracer = tracer
	return r
}

func (r ConflictRetrier) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, "workshop."+operation,
		trace.WithAttributes(attribute.String("workshop.operation", operation)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.initialInterval
	policy.MaxElapsedTime = 0

	tries := 0
	err := backoff.RetryNotify(
		func() error {
			tries++
			err := fn(ctx)
			if err != nil && !errors.Is(err, errs.ErrStorageConflict) {
				return backoff.Permanent(err)
			}
			return err
		},
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.attempts-1)), ctx),
		func(err error, wait time.Duration) {
			r.logger.WarnContext(ctx, "Storage conflict, retrying",
				"operation", operation,
				"attempt", tries,
				"wait", wait,
				"error", err,
			)
		},
	)

	span.SetAttributes(attribute.Int("workshop.attempts", tries))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return err
}
