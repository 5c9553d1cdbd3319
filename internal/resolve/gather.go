package resolve

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// part is one branch of a composite fetch. Run stores its own result.
type part struct {
	name      string
	mandatory bool
	run       func(ctx context.Context) error
}

// gather runs every part concurrently and waits for all of them. It fails
// only if a mandatory part failed; failed optional parts are logged and
// reported by name so the caller can leave their fields empty.
func gather(ctx context.Context, logger *zap.Logger, parts ...part) (map[string]error, error) {
	errs := make([]error, len(parts))

	var g errgroup.Group
	for i, p := range parts {
		g.Go(func() error {
			errs[i] = p.run(ctx)
			return nil
		})
	}
	_ = g.Wait()

	var mandatory []error
	optional := make(map[string]error)
	for i, p := range parts {
		if errs[i] == nil {
			continue
		}
		if p.mandatory {
			mandatory = append(mandatory, fmt.Errorf("%s: %w", p.name, errs[i]))
			continue
		}
		optional[p.name] = errs[i]
		logger.Warn("Optional part failed", zap.String("part", p.name), zap.Error(errs[i]))
	}

	if len(mandatory) > 0 {
		return optional, errors.Join(mandatory...)
	}
	return optional, nil
}
