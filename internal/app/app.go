package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/riskibarqy/getstandings/external/standingsfeed"
	"github.com/riskibarqy/getstandings/internal/config"
	"github.com/riskibarqy/getstandings/internal/interfaces/httpapi"
	"github.com/riskibarqy/getstandings/internal/platform/id"
	"github.com/riskibarqy/getstandings/internal/platform/logging"
	"github.com/riskibarqy/getstandings/internal/platform/scheduler"
	"github.com/riskibarqy/getstandings/internal/usecase"
	"github.com/sourcegraph/conc"
)

const shutdownTimeout = 10 * time.Second

// App is the composition root: stores, scheduler, standings services and the
// HTTP server.
type App struct {
	cfg       config.Config
	logger    *logging.Logger
	stores    *stores
	scheduler *scheduler.Scheduler
	policy    *usecase.RefreshPolicy
	service   *usecase.StandingsService
	handler   http.Handler
	server    *http.Server

	closeOnce sync.Once
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	st, err := buildStores(ctx, cfg, logger.Named("store"))
	if err != nil {
		return nil, fmt.Errorf("build stores: %w", err)
	}

	sched, err := scheduler.New(st.tasks, scheduler.Config{
		TickInterval: cfg.SchedulerTickInterval,
		Logger:       logger.Named("scheduler"),
	})
	if err != nil {
		closeAll(logger, st.closers)
		return nil, fmt.Errorf("build scheduler: %w", err)
	}

	feed := standingsfeed.NewClient(standingsfeed.ClientConfig{
		Timeout:        cfg.StandingsFetchTimeout,
		MaxRetries:     cfg.StandingsFetchMaxRetries,
		UserAgent:      cfg.ServiceName + "/" + cfg.ServiceVersion,
		Logger:         logger.Named("standingsfeed"),
		CircuitBreaker: cfg.StandingsCircuitBreaker(),
	})

	cacheStore := usecase.NewStandingsCache(st.options, cfg.StandingsOptionKey, logger)
	policy := usecase.NewRefreshPolicy(
		sched,
		feed,
		cacheStore,
		st.dispatches,
		id.NewRandomGenerator("refresh"),
		usecase.RefreshPolicyConfig{
			TaskID:         cfg.StandingsTaskID,
			SourceURL:      cfg.StandingsSourceURL,
			FirstFireDelay: cfg.StandingsFirstFireDelay,
			Interval:       cfg.StandingsRefreshInterval,
		},
		logger,
	)
	sched.Register(policy.TaskID(), policy.OnFire)

	service := usecase.NewStandingsService(policy, cacheStore, logger)
	handler := httpapi.NewRouter(
		httpapi.NewHandler(service, policy, cfg.InternalJobToken, logger),
		logger.Named("http"),
		cfg.CORSAllowedOrigins,
		cfg.InternalJobToken,
	)

	return &App{
		cfg:       cfg,
		logger:    logger,
		stores:    st,
		scheduler: sched,
		policy:    policy,
		service:   service,
		handler:   handler,
		server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}, nil
}

func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) StandingsService() *usecase.StandingsService {
	return a.service
}

func (a *App) RefreshPolicy() *usecase.RefreshPolicy {
	return a.policy
}

func (a *App) Scheduler() *scheduler.Scheduler {
	return a.scheduler
}

// Run serves HTTP and fires scheduled tasks until ctx is done or either
// loop fails. A panic in either loop is returned as an error.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg    conc.WaitGroup
		errMu sync.Mutex
		errs  []error
	)
	fail := func(err error) {
		errMu.Lock()
		errs = append(errs, err)
		errMu.Unlock()
		cancel()
	}

	wg.Go(func() {
		defer cancel()
		a.logger.Info("http server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fail(fmt.Errorf("http server: %w", err))
		}
	})
	wg.Go(func() {
		defer cancel()
		if err := a.scheduler.Run(ctx); err != nil {
			fail(fmt.Errorf("scheduler: %w", err))
		}
	})
	wg.Go(func() {
		<-ctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			fail(fmt.Errorf("graceful shutdown: %w", err))
			return
		}
		a.logger.Info("http server stopped")
	})

	if recovered := wg.WaitAndRecover(); recovered != nil {
		errs = append(errs, recovered.AsError())
	}
	return errors.Join(errs...)
}

// Close releases the scheduler pool and store connections. It is safe to
// call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.scheduler.Close()
		closeAll(a.logger, a.stores.closers)
	})
}

func closeAll(logger *logging.Logger, closers []func() error) {
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Warn("close store failed", "error", err)
		}
	}
}
