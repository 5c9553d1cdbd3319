// Package resolve assembles composite content views from several unreliable
// providers: ordered provider fallback, concurrent fan-out with mandatory and
// optional parts, and positional alignment of the results.
package resolve

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"nur/internal/core"
	"nur/internal/metrics"
)

// ReasonExhausted is the ResolutionError reason when every strategy failed.
const ReasonExhausted = "all providers failed"

// Strategy is one way of producing a whole resource. Strategies for the same
// resource are tried in order and never mixed.
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// FirstSuccess runs strategies in order and returns the first success with
// the winning strategy's name. When all fail it returns a
// *core.ResolutionError whose cause joins every strategy's error.
func FirstSuccess[T any](
	ctx context.Context,
	resource string,
	strategies []Strategy[T],
	logger *zap.Logger,
	m *metrics.Metrics,
) (T, string, error) {
	var zero T
	var errs []error

	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		value, err := s.Run(ctx)
		if err == nil {
			return value, s.Name, nil
		}

		logger.Warn("Strategy failed, trying next",
			zap.String("resource", resource),
			zap.String("strategy", s.Name),
			zap.Error(err))
		m.RecordFallback(resource, s.Name)
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		errs = append(errs, errors.New("no strategies configured"))
	}

	cause := errors.Join(errs...)
	logger.Error("Resolution failed", zap.String("resource", resource), zap.Error(cause))
	return zero, "", &core.ResolutionError{Resource: resource, Reason: ReasonExhausted, Err: cause}
}
