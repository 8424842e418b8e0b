package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/riskibarqy/getstandings/internal/config"
	"github.com/riskibarqy/getstandings/internal/platform/logging"
)

// Telemetry owns the process-wide tracing, profiling and pprof hooks.
type Telemetry struct {
	logger        *logging.Logger
	shutdownTrace func(context.Context) error
	stopProfiler  func() error
	pprofServer   *http.Server
}

// Start brings up every enabled hook. On failure the hooks already started
// are stopped before returning.
func Start(cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{logger: logger.Named("observability")}

	var err error
	if t.shutdownTrace, err = startTracing(cfg, t.logger); err != nil {
		return nil, err
	}
	if t.stopProfiler, err = startProfiler(cfg, t.logger); err != nil {
		_ = t.Shutdown(context.Background())
		return nil, err
	}
	if t.pprofServer, err = startPprofServer(cfg, t.logger); err != nil {
		_ = t.Shutdown(context.Background())
		return nil, err
	}
	return t, nil
}

// Shutdown stops the hooks in reverse start order and flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.pprofServer != nil {
		if err := t.pprofServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		} else {
			t.logger.Info("pprof server stopped")
		}
	}
	if t.stopProfiler != nil {
		errs = append(errs, t.stopProfiler())
	}
	if t.shutdownTrace != nil {
		errs = append(errs, t.shutdownTrace(ctx))
	}
	return errors.Join(errs...)
}
