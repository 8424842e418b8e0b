package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/getstandings/internal/domain/jobscheduler"
	"github.com/riskibarqy/getstandings/internal/platform/logging"
)

var ErrScheduleRejected = errors.New("schedule rejected")

const defaultTickInterval = time.Second

// Hook is invoked each time a registered task fires.
type Hook func(ctx context.Context) error

type Config struct {
	TickInterval time.Duration
	Logger       *logging.Logger
	Now          func() time.Time
}

// Scheduler fires recurring tasks persisted in a TaskRepository. Hooks run on
// a single worker, so two firings never overlap.
type Scheduler struct {
	tasks  jobscheduler.TaskRepository
	logger *logging.Logger
	tick   time.Duration
	now    func() time.Time

	mu    sync.RWMutex
	hooks map[string]Hook

	// taskMu orders task writes so an advance never resurrects a cancelled task.
	taskMu sync.Mutex

	pool *ants.Pool
}

func New(tasks jobscheduler.TaskRepository, cfg Config) (*Scheduler, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task repository is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = defaultTickInterval
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	pool, err := ants.NewPool(1,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(p any) {
			logger.Error("scheduled hook panicked", "panic", p)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create hook pool: %w", err)
	}

	return &Scheduler{
		tasks:  tasks,
		logger: logger,
		tick:   tick,
		now:    now,
		hooks:  make(map[string]Hook),
		pool:   pool,
	}, nil
}

// Register binds hook to taskID. A later call replaces the earlier hook.
func (s *Scheduler) Register(taskID string, hook Hook) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" || hook == nil {
		return
	}

	s.mu.Lock()
	s.hooks[taskID] = hook
	s.mu.Unlock()
}

func (s *Scheduler) hook(taskID string) (Hook, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hooks[taskID]
	return h, ok
}

// Schedule registers taskID to fire at firstFire and every interval after.
func (s *Scheduler) Schedule(ctx context.Context, taskID string, firstFire time.Time, interval time.Duration) error {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return fmt.Errorf("%w: task id is required", ErrScheduleRejected)
	}
	if interval <= 0 {
		return fmt.Errorf("%w: interval must be > 0 for task %s", ErrScheduleRejected, taskID)
	}
	if _, ok := s.hook(taskID); !ok {
		return fmt.Errorf("%w: no hook registered for task %s", ErrScheduleRejected, taskID)
	}
	if firstFire.IsZero() {
		firstFire = s.now()
	}

	task := jobscheduler.Task{
		ID:          taskID,
		FirstFireAt: firstFire.UTC(),
		Interval:    interval,
		NextFireAt:  firstFire.UTC(),
		UpdatedAt:   s.now().UTC(),
	}
	s.taskMu.Lock()
	err := s.tasks.Upsert(ctx, task)
	s.taskMu.Unlock()
	if err != nil {
		return fmt.Errorf("persist task %s: %w", taskID, err)
	}

	s.logger.InfoContext(ctx, "task scheduled",
		"task_id", taskID,
		"first_fire_at", task.FirstFireAt,
		"interval", interval,
	)
	return nil
}

// NextFire returns the next fire time of taskID, or false when it is not
// scheduled.
func (s *Scheduler) NextFire(ctx context.Context, taskID string) (time.Time, bool, error) {
	task, ok, err := s.tasks.Get(ctx, strings.TrimSpace(taskID))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get task %s: %w", taskID, err)
	}
	if !ok || task.NextFireAt.IsZero() {
		return time.Time{}, false, nil
	}
	return task.NextFireAt, true, nil
}

// Cancel removes taskID. Cancelling an unknown task is not an error.
func (s *Scheduler) Cancel(ctx context.Context, taskID string) error {
	taskID = strings.TrimSpace(taskID)
	s.taskMu.Lock()
	err := s.tasks.Delete(ctx, taskID)
	s.taskMu.Unlock()
	if err != nil {
		return fmt.Errorf("delete task %s: %w", taskID, err)
	}
	s.logger.InfoContext(ctx, "task cancelled", "task_id", taskID)
	return nil
}

// Run fires due tasks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started", "tick", s.tick)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		if _, err := s.RunDue(ctx); err != nil && ctx.Err() == nil {
			s.logger.WarnContext(ctx, "scheduler pass failed", "error", err)
		}

		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RunDue performs one scheduling pass and returns the number of hooks
// submitted.
func (s *Scheduler) RunDue(ctx context.Context) (int, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list tasks: %w", err)
	}

	now := s.now().UTC()
	submitted := 0
	for _, task := range tasks {
		if !task.Due(now) {
			continue
		}

		advanced, err := s.advance(ctx, task.ID, now)
		if err != nil {
			s.logger.WarnContext(ctx, "advance task failed", "task_id", task.ID, "error", err)
			continue
		}
		if !advanced {
			s.logger.DebugContext(ctx, "task changed since listing, skip firing", "task_id", task.ID)
			continue
		}

		hook, ok := s.hook(task.ID)
		if !ok {
			s.logger.WarnContext(ctx, "due task has no hook", "task_id", task.ID)
			continue
		}

		if s.submit(ctx, task.ID, hook) {
			submitted++
		}
	}

	return submitted, nil
}

// advance re-reads taskID and moves it past now. It reports false when the
// task was cancelled or is no longer due.
func (s *Scheduler) advance(ctx context.Context, taskID string, now time.Time) (bool, error) {
	s.taskMu.Lock()
	defer s.taskMu.Unlock()

	current, ok, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return false, fmt.Errorf("get task: %w", err)
	}
	if !ok || !current.Due(now) {
		return false, nil
	}

	next := current.Advance(now)
	next.UpdatedAt = now
	if err := s.tasks.Upsert(ctx, next); err != nil {
		return false, fmt.Errorf("persist task: %w", err)
	}
	return true, nil
}

func (s *Scheduler) submit(ctx context.Context, taskID string, hook Hook) bool {
	err := s.pool.Submit(func() {
		started := time.Now()
		if err := hook(ctx); err != nil {
			s.logger.WarnContext(ctx, "scheduled hook failed",
				"task_id", taskID,
				"duration_ms", time.Since(started).Milliseconds(),
				"error", err,
			)
			return
		}
		s.logger.DebugContext(ctx, "scheduled hook completed",
			"task_id", taskID,
			"duration_ms", time.Since(started).Milliseconds(),
		)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "skip firing, previous run still active", "task_id", taskID, "error", err)
		return false
	}
	return true
}

// Running reports how many hooks are executing.
func (s *Scheduler) Running() int {
	return s.pool.Running()
}

func (s *Scheduler) Close() {
	s.pool.Release()
}
