package usecase

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/getstandings/internal/domain/jobscheduler"
	"github.com/riskibarqy/getstandings/internal/domain/standings"
	"github.com/riskibarqy/getstandings/internal/platform/id"
	"github.com/riskibarqy/getstandings/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const refreshJobName = "standings.refresh"

const (
	TriggerScheduler = "scheduler"
	TriggerManual    = "manual"
	TriggerActivate  = "activate"
)

type RefreshPolicyConfig struct {
	TaskID         string
	SourceURL      string
	FirstFireDelay time.Duration
	Interval       time.Duration
}

// ScheduleStatus describes the refresh registration. AlreadyScheduled is only
// set by EnsureScheduled when it found an existing registration.
type ScheduleStatus struct {
	Scheduled        bool      `json:"scheduled"`
	AlreadyScheduled bool      `json:"already_scheduled"`
	NextFireAt       time.Time `json:"next_fire_at,omitempty"`
}

type RefreshResult struct {
	DispatchID string    `json:"dispatch_id"`
	Trigger    string    `json:"trigger"`
	SourceURL  string    `json:"source_url"`
	Bytes      int       `json:"bytes"`
	RowCount   int       `json:"row_count"`
	FetchedAt  time.Time `json:"fetched_at"`
	Discarded  bool      `json:"discarded,omitempty"`
}

// RefreshPolicy owns the recurring refresh: it keeps exactly one schedule
// registration and runs one fetch-and-cache cycle per fire.
type RefreshPolicy struct {
	scheduler    TaskScheduler
	fetcher      StandingsFetcher
	cache        *StandingsCache
	dispatchRepo jobscheduler.Repository
	ids          id.Generator
	cfg          RefreshPolicyConfig
	logger       *logging.Logger
	now          func() time.Time

	scheduleMu sync.Mutex

	// writeMu guards generation. Deactivate bumps it so a fetch that started
	// earlier cannot refill the cache it just cleared.
	writeMu    sync.Mutex
	generation uint64

	urlMu     sync.RWMutex
	sourceURL string
}

func NewRefreshPolicy(
	scheduler TaskScheduler,
	fetcher StandingsFetcher,
	cache *StandingsCache,
	dispatchRepo jobscheduler.Repository,
	ids id.Generator,
	cfg RefreshPolicyConfig,
	logger *logging.Logger,
) *RefreshPolicy {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewRandomGenerator("refresh")
	}
	if strings.TrimSpace(cfg.TaskID) == "" {
		cfg.TaskID = standings.DefaultRefreshTaskID
	}
	if strings.TrimSpace(cfg.SourceURL) == "" {
		cfg.SourceURL = standings.DefaultSourceURL
	}
	if cfg.FirstFireDelay <= 0 {
		cfg.FirstFireDelay = standings.DefaultFirstFireDelay
	}
	if cfg.Interval <= 0 {
		cfg.Interval = standings.DefaultRefreshInterval
	}

	return &RefreshPolicy{
		scheduler:    scheduler,
		fetcher:      fetcher,
		cache:        cache,
		dispatchRepo: dispatchRepo,
		ids:          ids,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
		sourceURL:    strings.TrimSpace(cfg.SourceURL),
	}
}

func (p *RefreshPolicy) TaskID() string {
	return p.cfg.TaskID
}

// SetSourceURL changes the URL used by later fetches. Blank input is ignored.
func (p *RefreshPolicy) SetSourceURL(sourceURL string) {
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return
	}

	p.urlMu.Lock()
	changed := p.sourceURL != sourceURL
	p.sourceURL = sourceURL
	p.urlMu.Unlock()

	if changed {
		p.logger.Info("standings source url changed", "source_url", sourceURL)
	}
}

func (p *RefreshPolicy) SourceURL() string {
	p.urlMu.RLock()
	defer p.urlMu.RUnlock()
	return p.sourceURL
}

// State reads the registration from the scheduler.
func (p *RefreshPolicy) State(ctx context.Context) (ScheduleStatus, error) {
	next, ok, err := p.scheduler.NextFire(ctx, p.cfg.TaskID)
	if err != nil {
		return ScheduleStatus{}, standings.NewScheduleError(err, "read refresh schedule")
	}
	if !ok {
		return ScheduleStatus{}, nil
	}
	return ScheduleStatus{Scheduled: true, NextFireAt: next}, nil
}

// EnsureScheduled registers the refresh task unless it is already registered.
func (p *RefreshPolicy) EnsureScheduled(ctx context.Context) (ScheduleStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshPolicy.EnsureScheduled",
		attribute.String("task_id", p.cfg.TaskID),
	)
	defer span.End()

	p.scheduleMu.Lock()
	defer p.scheduleMu.Unlock()

	state, err := p.State(ctx)
	if err != nil {
		recordSpanError(span, err)
		return ScheduleStatus{}, err
	}
	if state.Scheduled {
		state.AlreadyScheduled = true
		return state, nil
	}

	firstFire := p.now().UTC().Add(p.cfg.FirstFireDelay)
	if err := p.scheduler.Schedule(ctx, p.cfg.TaskID, firstFire, p.cfg.Interval); err != nil {
		err = standings.NewScheduleError(err, "schedule standings refresh")
		recordSpanError(span, err)
		p.logger.WarnContext(ctx, "schedule standings refresh failed", "task_id", p.cfg.TaskID, "error", err)
		return ScheduleStatus{NextFireAt: firstFire}, err
	}

	p.logger.InfoContext(ctx, "standings refresh scheduled",
		"task_id", p.cfg.TaskID,
		"first_fire_at", firstFire,
		"interval", p.cfg.Interval,
	)
	return ScheduleStatus{Scheduled: true, NextFireAt: firstFire}, nil
}

// OnFire is the scheduler hook: one fetch-and-cache cycle. Each fire is the
// root of its own trace.
func (p *RefreshPolicy) OnFire(ctx context.Context) error {
	ctx, span := usecaseTracer.Start(ctx, "usecase.RefreshPolicy.OnFire",
		trace.WithNewRoot(),
		trace.WithAttributes(attribute.String("task_id", p.cfg.TaskID)),
	)
	defer span.End()

	_, err := p.Refresh(ctx, TriggerScheduler)
	recordSpanError(span, err)
	return err
}

// Refresh fetches from the current source URL and replaces the cached blob.
// A failed fetch leaves the cache untouched and is not retried here.
func (p *RefreshPolicy) Refresh(ctx context.Context, trigger string) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshPolicy.Refresh",
		attribute.String("trigger", trigger),
	)
	defer span.End()

	generation := p.currentGeneration()
	result := RefreshResult{
		DispatchID: p.newDispatchID(ctx),
		Trigger:    trigger,
		SourceURL:  p.SourceURL(),
	}
	payload := map[string]any{"source_url": result.SourceURL}
	p.recordDispatch(ctx, result, jobscheduler.StatusSent, payload, "")

	started := p.now()
	blob, err := p.fetcher.Fetch(ctx, result.SourceURL)
	if err != nil {
		err = standings.NewFetchError(err, "fetch standings")
		recordSpanError(span, err)
		p.logger.WarnContext(ctx, "standings refresh fetch failed",
			"dispatch_id", result.DispatchID,
			"source_url", result.SourceURL,
			"error", err,
		)
		p.recordDispatch(ctx, result, jobscheduler.StatusFailed, payload, err.Error())
		return result, err
	}

	written, err := p.writeIfCurrent(ctx, generation, blob)
	if err != nil {
		recordSpanError(span, err)
		p.logger.ErrorContext(ctx, "standings refresh cache write failed", "dispatch_id", result.DispatchID, "error", err)
		p.recordDispatch(ctx, result, jobscheduler.StatusFailed, payload, err.Error())
		return result, err
	}
	if !written {
		result.Discarded = true
		p.logger.InfoContext(ctx, "standings refresh discarded, deactivated during fetch", "dispatch_id", result.DispatchID)
		p.recordDispatch(ctx, result, jobscheduler.StatusFailed, payload, "deactivated during fetch")
		return result, nil
	}

	result.Bytes = len(blob)
	result.FetchedAt = p.now().UTC()
	if cells, parseErr := standings.ParseBlob(blob); parseErr == nil {
		result.RowCount = len(standings.BuildRows(cells))
	}

	payload["bytes"] = result.Bytes
	payload["row_count"] = result.RowCount
	p.recordDispatch(ctx, result, jobscheduler.StatusCompleted, payload, "")

	p.logger.InfoContext(ctx, "standings refreshed",
		"dispatch_id", result.DispatchID,
		"trigger", trigger,
		"bytes", result.Bytes,
		"row_count", result.RowCount,
		"duration_ms", p.now().Sub(started).Milliseconds(),
	)
	return result, nil
}

// Activate ensures the schedule and runs one immediate refresh. A failed
// refresh is logged and does not fail activation.
func (p *RefreshPolicy) Activate(ctx context.Context) (ScheduleStatus, error) {
	status, err := p.EnsureScheduled(ctx)
	if err != nil {
		return status, err
	}

	if _, err := p.Refresh(ctx, TriggerActivate); err != nil {
		p.logger.WarnContext(ctx, "initial standings refresh failed", "error", err)
	}
	return status, nil
}

// Deactivate cancels the refresh task and clears the cache.
func (p *RefreshPolicy) Deactivate(ctx context.Context) error {
	p.scheduleMu.Lock()
	defer p.scheduleMu.Unlock()
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.generation++
	if err := p.scheduler.Cancel(ctx, p.cfg.TaskID); err != nil {
		return standings.NewScheduleError(err, "cancel standings refresh")
	}
	if err := p.cache.Clear(ctx); err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "standings refresh deactivated", "task_id", p.cfg.TaskID)
	return nil
}

func (p *RefreshPolicy) currentGeneration() uint64 {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.generation
}

// writeIfCurrent stores blob unless Deactivate ran after generation was read.
func (p *RefreshPolicy) writeIfCurrent(ctx context.Context, generation uint64, blob standings.Blob) (bool, error) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	if p.generation != generation {
		return false, nil
	}
	if err := p.cache.Write(ctx, blob); err != nil {
		return false, err
	}
	return true, nil
}

func (p *RefreshPolicy) newDispatchID(ctx context.Context) string {
	dispatchID, err := p.ids.NewID()
	if err != nil {
		p.logger.WarnContext(ctx, "generate dispatch id failed", "error", err)
		return fmt.Sprintf("refresh-%d", p.now().UTC().UnixNano())
	}
	return dispatchID
}

func (p *RefreshPolicy) recordDispatch(ctx context.Context, result RefreshResult, status jobscheduler.DispatchStatus, payload map[string]any, errMessage string) {
	if p.dispatchRepo == nil {
		return
	}

	spanCtx := trace.SpanContextFromContext(ctx)
	event := jobscheduler.DispatchEvent{
		DispatchID:   result.DispatchID,
		JobName:      refreshJobName,
		TaskID:       p.cfg.TaskID,
		Trigger:      result.Trigger,
		Status:       status,
		Payload:      maps.Clone(payload),
		ErrorMessage: errMessage,
		OccurredAt:   p.now().UTC(),
	}
	if spanCtx.IsValid() {
		event.TraceID = spanCtx.TraceID().String()
		event.SpanID = spanCtx.SpanID().String()
	}

	if err := p.dispatchRepo.UpsertEvent(ctx, event); err != nil {
		p.logger.WarnContext(ctx, "record refresh dispatch failed",
			"dispatch_id", result.DispatchID,
			"status", status,
			"error", err,
		)
	}
}
