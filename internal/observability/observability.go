package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/schedule-odds/internal/config"
	"github.com/riskibarqy/schedule-odds/internal/platform/logging"
)

type stopFunc func(context.Context) error

func noop(context.Context) error { return nil }

// Runtime holds the tracing exporter, continuous profiler and pprof listener
// started for the process.
type Runtime struct {
	logger *logging.Logger
	stops  []namedStop
}

type namedStop struct {
	name string
	stop stopFunc
}

// Start brings up every enabled component. On failure the components already
// started are shut down before returning.
func Start(cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}
	rt := &Runtime{logger: logger}

	starters := []struct {
		name  string
		start func(config.Config, *logging.Logger) (stopFunc, error)
	}{
		{"uptrace", startUptrace},
		{"pyroscope", startPyroscope},
		{"pprof", startPprof},
	}
	for _, s := range starters {
		stop, err := s.start(cfg, logger.Named(s.name))
		if err != nil {
			_ = rt.Shutdown(context.Background())
			return nil, fmt.Errorf("start %s: %w", s.name, err)
		}
		rt.stops = append(rt.stops, namedStop{name: s.name, stop: stop})
	}
	return rt, nil
}

// Shutdown stops components in reverse start order. It is safe to call twice.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var errs []error
	for i := len(r.stops) - 1; i >= 0; i-- {
		s := r.stops[i]
		if err := s.stop(ctx); err != nil {
			r.logger.Error("observability shutdown failed", "component", s.name, "error", err)
			errs = append(errs, fmt.Errorf("stop %s: %w", s.name, err))
		}
	}
	r.stops = nil
	return errors.Join(errs...)
}
