package usecase

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/riskibarqy/getstandings/internal/domain/jobscheduler"
	"github.com/riskibarqy/getstandings/internal/domain/standings"
	"github.com/riskibarqy/getstandings/internal/infrastructure/repository/memory"
	jobschedulermock "github.com/riskibarqy/getstandings/internal/mocks/domain/jobscheduler"
	usecasemock "github.com/riskibarqy/getstandings/internal/mocks/usecase"
	"github.com/riskibarqy/getstandings/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

type sequenceIDs struct {
	next int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.next++
	return "dispatch-" + strconv.Itoa(g.next), nil
}

type failingIDs struct{}

func (failingIDs) NewID() (string, error) {
	return "", errors.New("entropy exhausted")
}

var policyNow = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

type policyFixture struct {
	scheduler  *usecasemock.TaskScheduler
	fetcher    *usecasemock.StandingsFetcher
	store      *memory.OptionRepository
	dispatches *memory.JobDispatchRepository
	cache      *StandingsCache
	policy     *RefreshPolicy
}

func newPolicyFixture(t *testing.T, cfg RefreshPolicyConfig) policyFixture {
	t.Helper()

	f := policyFixture{
		scheduler:  usecasemock.NewTaskScheduler(t),
		fetcher:    usecasemock.NewStandingsFetcher(t),
		store:      memory.NewOptionRepository(),
		dispatches: memory.NewJobDispatchRepository(),
	}
	f.cache = NewStandingsCache(f.store, "", logging.NewNop())
	f.policy = NewRefreshPolicy(f.scheduler, f.fetcher, f.cache, f.dispatches, &sequenceIDs{}, cfg, logging.NewNop())
	f.policy.now = func() time.Time { return policyNow }
	return f
}

func TestNewRefreshPolicy_Defaults(t *testing.T) {
	t.Parallel()

	f := newPolicyFixture(t, RefreshPolicyConfig{})
	if f.policy.TaskID() != standings.DefaultRefreshTaskID {
		t.Fatalf("unexpected task id: %s", f.policy.TaskID())
	}
	if f.policy.SourceURL() != standings.DefaultSourceURL {
		t.Fatalf("unexpected source url: %s", f.policy.SourceURL())
	}
	if f.policy.cfg.FirstFireDelay != standings.DefaultFirstFireDelay || f.policy.cfg.Interval != standings.DefaultRefreshInterval {
		t.Fatalf("unexpected timing defaults: %+v", f.policy.cfg)
	}

	f.policy.SetSourceURL("   ")
	if f.policy.SourceURL() != standings.DefaultSourceURL {
		t.Fatalf("blank source url must be ignored")
	}
	f.policy.SetSourceURL(" https://example.com/feed ")
	if f.policy.SourceURL() != "https://example.com/feed" {
		t.Fatalf("unexpected source url: %s", f.policy.SourceURL())
	}
}

func TestRefreshPolicy_EnsureScheduled_RegistersOnce(t *testing.T) {
	t.Parallel()

	f := newPolicyFixture(t, RefreshPolicyConfig{TaskID: "refresh-task"})
	firstFire := policyNow.Add(standings.DefaultFirstFireDelay)

	f.scheduler.On("NextFire", mock.Anything, "refresh-task").Return(time.Time{}, false, nil).Once()
	f.scheduler.On("Schedule", mock.Anything, "refresh-task", firstFire, standings.DefaultRefreshInterval).Return(nil).Once()
	f.scheduler.On("NextFire", mock.Anything, "refresh-task").Return(firstFire, true, nil).Once()

	status, err := f.policy.EnsureScheduled(context.Background())
	if err != nil {
		t.Fatalf("ensure scheduled: %v", err)
	}
	if !status.Scheduled || status.AlreadyScheduled || !status.NextFireAt.Equal(firstFire) {
		t.Fatalf("unexpected first status: %+v", status)
	}

	status, err = f.policy.EnsureScheduled(context.Background())
	if err != nil {
		t.Fatalf("ensure scheduled again: %v", err)
	}
	if !status.Scheduled || !status.AlreadyScheduled || !status.NextFireAt.Equal(firstFire) {
		t.Fatalf("unexpected second status: %+v", status)
	}
}

func TestRefreshPolicy_EnsureScheduled_ScheduleRejected(t *testing.T) {
	t.Parallel()

	f := newPolicyFixture(t, RefreshPolicyConfig{FirstFireDelay: time.Minute})
	firstFire := policyNow.Add(time.Minute)

	f.scheduler.On("NextFire", mock.Anything, standings.DefaultRefreshTaskID).Return(time.Time{}, false, nil).Once()
	f.scheduler.On("Schedule", mock.Anything, standings.DefaultRefreshTaskID, firstFire, standings.DefaultRefreshInterval).
		Return(errors.New("hook not registered")).
		Once()

	status, err := f.policy.EnsureScheduled(context.Background())
	if !standings.IsScheduleError(err) {
		t.Fatalf("expected schedule error, got %v", err)
	}
	if status.Scheduled || !status.NextFireAt.Equal(firstFire) {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestRefreshPolicy_State_LookupError(t *testing.T) {
	t.Parallel()

	f := newPolicyFixture(t, RefreshPolicyConfig{})
	f.scheduler.On("NextFire", mock.Anything, standings.DefaultRefreshTaskID).
		Return(time.Time{}, false, errors.New("store down")).
		Once()

	if _, err := f.policy.State(context.Background()); !standings.IsScheduleError(err) {
		t.Fatalf("expected schedule error, got %v", err)
	}
}

func TestRefreshPolicy_OnFire_ReplacesCache(t *testing.T) {
	t.Parallel()

	f := newPolicyFixture(t, RefreshPolicyConfig{SourceURL: "https://example.com/feed"})
	blob := standings.Blob(`{"query":{"count":3,"results":{"td":[{"content":"Team A"},{"content":"3"},{"content":"1"}]}}}`)
	f.fetcher.On("Fetch", mock.Anything, "https://example.com/feed").Return(blob, nil).Once()

	if err := f.policy.OnFire(context.Background()); err != nil {
		t.Fatalf("on fire: %v", err)
	}

	cached, err := f.cache.Read(context.Background())
	if err != nil {
		t.Fatalf("read cache: %v", err)
	}
	if cached != blob {
		t.Fatalf("unexpected cached blob: %s", cached)
	}

	events := f.dispatches.List()
	if len(events) != 1 {
		t.Fatalf("expected one dispatch, got %d", len(events))
	}
	event := events[0]
	if event.DispatchID != "dispatch-1" || event.Status != jobscheduler.StatusCompleted || event.Trigger != TriggerScheduler {
		t.Fatalf("unexpected dispatch event: %+v", event)
	}
	if event.Payload["row_count"] != 1 || event.Payload["bytes"] != len(blob) {
		t.Fatalf("unexpected dispatch payload: %+v", event.Payload)
	}
}

func TestRefreshPolicy_OnFire_FetchFailureKeepsCache(t *testing.T) {
	t.Parallel()

	f := newPolicyFixture(t, RefreshPolicyConfig{})
	previous := standings.Blob(`{"query":{"count":0}}`)
	if err := f.cache.Write(context.Background(), previous); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	f.fetcher.On("Fetch", mock.Anything, standings.DefaultSourceURL).
		Return(standings.Blob(""), errors.New("dial tcp: timeout")).
		Once()

	err := f.policy.OnFire(context.Background())
	if !standings.IsFetchError(err) {
		t.Fatalf("expected fetch error, got %v", err)
	}

	cached, readErr := f.cache.Read(context.Background())
	if readErr != nil || cached != previous {
		t.Fatalf("cache must be untouched, got %s err=%v", cached, readErr)
	}

	events := f.dispatches.List()
	if len(events) != 1 || events[0].Status != jobscheduler.StatusFailed || events[0].ErrorMessage == "" {
		t.Fatalf("unexpected dispatch events: %+v", events)
	}
}

func TestRefreshPolicy_Refresh_DispatchRecorderFailureIgnored(t *testing.T) {
	t.Parallel()

	scheduler := usecasemock.NewTaskScheduler(t)
	fetcher := usecasemock.NewStandingsFetcher(t)
	dispatchRepo := jobschedulermock.NewRepository(t)
	cache := NewStandingsCache(memory.NewOptionRepository(), "", logging.NewNop())
	policy := NewRefreshPolicy(scheduler, fetcher, cache, dispatchRepo, failingIDs{}, RefreshPolicyConfig{}, logging.NewNop())
	policy.now = func() time.Time { return policyNow }

	fetcher.On("Fetch", mock.Anything, standings.DefaultSourceURL).Return(standings.DefaultBlob, nil).Once()
	dispatchRepo.
		On("UpsertEvent", mock.Anything, mock.MatchedBy(func(e jobscheduler.DispatchEvent) bool {
			return e.Status == jobscheduler.StatusSent
		})).
		Return(errors.New("insert failed")).
		Once()
	dispatchRepo.
		On("UpsertEvent", mock.Anything, mock.MatchedBy(func(e jobscheduler.DispatchEvent) bool {
			return e.Status == jobscheduler.StatusCompleted
		})).
		Return(nil).
		Once()

	result, err := policy.Refresh(context.Background(), TriggerManual)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if result.RowCount != 9 || result.Trigger != TriggerManual {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.DispatchID != "refresh-"+strconv.FormatInt(policyNow.UnixNano(), 10) {
		t.Fatalf("unexpected fallback dispatch id: %s", result.DispatchID)
	}
}

func TestRefreshPolicy_Activate_RefreshFailureTolerated(t *testing.T) {
	t.Parallel()

	f := newPolicyFixture(t, RefreshPolicyConfig{})
	firstFire := policyNow.Add(standings.DefaultFirstFireDelay)

	f.scheduler.On("NextFire", mock.Anything, standings.DefaultRefreshTaskID).Return(time.Time{}, false, nil).Once()
	f.scheduler.On("Schedule", mock.Anything, standings.DefaultRefreshTaskID, firstFire, standings.DefaultRefreshInterval).Return(nil).Once()
	f.fetcher.On("Fetch", mock.Anything, standings.DefaultSourceURL).
		Return(standings.Blob(""), errors.New("503 service unavailable")).
		Once()

	status, err := f.policy.Activate(context.Background())
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !status.Scheduled {
		t.Fatalf("expected schedule registration, got %+v", status)
	}

	events := f.dispatches.List()
	if len(events) != 1 || events[0].Trigger != TriggerActivate {
		t.Fatalf("unexpected dispatch events: %+v", events)
	}
}

func TestRefreshPolicy_Deactivate(t *testing.T) {
	t.Parallel()

	f := newPolicyFixture(t, RefreshPolicyConfig{})
	if err := f.cache.Write(context.Background(), standings.Blob(`{"query":{"count":0}}`)); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	f.scheduler.On("Cancel", mock.Anything, standings.DefaultRefreshTaskID).Return(nil).Once()
	if err := f.policy.Deactivate(context.Background()); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, ok, _ := f.store.Get(context.Background(), standings.DefaultOptionKey); ok {
		t.Fatalf("expected cached blob to be removed")
	}
}

func TestRefreshPolicy_Deactivate_DiscardsInFlightRefresh(t *testing.T) {
	t.Parallel()

	f := newPolicyFixture(t, RefreshPolicyConfig{})
	blob := standings.Blob(`{"query":{"count":3,"results":{"td":[{"content":"Team A"},{"content":"3"},{"content":"1"}]}}}`)

	started := make(chan struct{})
	release := make(chan struct{})
	f.fetcher.On("Fetch", mock.Anything, standings.DefaultSourceURL).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(blob, nil).
		Once()
	f.scheduler.On("Cancel", mock.Anything, standings.DefaultRefreshTaskID).Return(nil).Once()

	done := make(chan error, 1)
	go func() { done <- f.policy.OnFire(context.Background()) }()

	<-started
	if err := f.policy.Deactivate(context.Background()); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("on fire: %v", err)
	}

	if _, ok, _ := f.store.Get(context.Background(), standings.DefaultOptionKey); ok {
		t.Fatalf("refresh finished after deactivate must not refill the cache")
	}

	events := f.dispatches.List()
	if len(events) != 1 || events[0].Status != jobscheduler.StatusFailed {
		t.Fatalf("unexpected dispatch events: %+v", events)
	}
}

func TestRefreshPolicy_Deactivate_CancelError(t *testing.T) {
	t.Parallel()

	f := newPolicyFixture(t, RefreshPolicyConfig{})
	f.scheduler.On("Cancel", mock.Anything, standings.DefaultRefreshTaskID).Return(errors.New("store down")).Once()

	if err := f.policy.Deactivate(context.Background()); !standings.IsScheduleError(err) {
		t.Fatalf("expected schedule error, got %v", err)
	}
}
