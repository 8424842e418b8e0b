package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/getstandings/internal/domain/standings"
	"github.com/riskibarqy/getstandings/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	debugRescheduled      = "Event re-scheduled: "
	debugAlreadyScheduled = "Event already scheduled: "
	debugScheduleFailed   = "Event schedule failed: "
	debugDataUnavailable  = "Standings data unavailable: "
	debugNoteSeparator    = " | "
)

// StandingsService merges cached standings into caller tables.
type StandingsService struct {
	policy   *RefreshPolicy
	cache    *StandingsCache
	validate *validator.Validate
	logger   *logging.Logger
}

func NewStandingsService(policy *RefreshPolicy, cache *StandingsCache, logger *logging.Logger) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{
		policy:   policy,
		cache:    cache,
		validate: validator.New(),
		logger:   logger,
	}
}

// Render fills table rows 1..n with the current standings when opts.Enabled
// is set. Schedule and data problems never fail the render; with opts.Debug
// they are reported in header cell [0][0].
func (s *StandingsService) Render(ctx context.Context, table standings.Table, opts standings.RenderOptions) (standings.Table, error) {
	if !opts.Enabled {
		return table, nil
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Render",
		attribute.Bool("debug", opts.Debug),
	)
	defer span.End()

	if err := s.validate.StructCtx(ctx, opts); err != nil {
		return table, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	out := table.Clone()
	if opts.SourceURL != "" {
		s.policy.SetSourceURL(opts.SourceURL)
	}

	status, err := s.policy.EnsureScheduled(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "ensure standings schedule failed", "error", err)
	}
	note := scheduleNote(status, err)

	rows, dataErr := s.currentRows(ctx)
	if dataErr != nil {
		recordSpanError(span, dataErr)
		note += debugNoteSeparator + debugDataUnavailable + dataErr.Error()
	}
	if opts.Debug {
		out.SetHeaderNote(note)
	}

	out.MergeRows(rows)
	span.SetAttributes(attribute.Int("row_count", len(rows)))
	return out, nil
}

// Rows returns the standings rows currently cached, or the default rows when
// the cache is unusable.
func (s *StandingsService) Rows(ctx context.Context) []standings.Row {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Rows")
	defer span.End()

	rows, err := s.currentRows(ctx)
	if err != nil {
		recordSpanError(span, err)
	}
	return rows
}

// Schedule reports the refresh registration.
func (s *StandingsService) Schedule(ctx context.Context) (ScheduleStatus, error) {
	return s.policy.State(ctx)
}

// currentRows parses the cached blob. When the cache cannot be read or
// decoded the default rows are returned together with the cause.
func (s *StandingsService) currentRows(ctx context.Context) ([]standings.Row, error) {
	blob, err := s.cache.Read(ctx)
	if err == nil {
		cells, parseErr := standings.ParseBlob(blob)
		if parseErr == nil {
			return standings.BuildRows(cells), nil
		}
		err = parseErr
	}

	s.logger.WarnContext(ctx, "cached standings unusable, using default", "error", err)
	cells, parseErr := standings.ParseBlob(standings.DefaultBlob)
	if parseErr != nil {
		return nil, parseErr
	}
	return standings.BuildRows(cells), err
}

func scheduleNote(status ScheduleStatus, err error) string {
	at := status.NextFireAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	stamp := at.Format(time.RFC1123Z)
	switch {
	case err != nil:
		return debugScheduleFailed + stamp
	case status.AlreadyScheduled:
		return debugAlreadyScheduled + stamp
	default:
		return debugRescheduled + stamp
	}
}
