package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/getstandings/internal/domain/standings"
)

// StandingsFetcher retrieves the raw standings payload from the query service.
type StandingsFetcher interface {
	Fetch(ctx context.Context, sourceURL string) (standings.Blob, error)
}

// TaskScheduler is the host scheduler surface the refresh policy needs.
type TaskScheduler interface {
	Schedule(ctx context.Context, taskID string, firstFire time.Time, interval time.Duration) error
	NextFire(ctx context.Context, taskID string) (time.Time, bool, error)
	Cancel(ctx context.Context, taskID string) error
}
