package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/getstandings/internal/domain/standings"
	"github.com/riskibarqy/getstandings/internal/platform/logging"
)

const logValuePreviewLimit = 240

// StandingsCache keeps the single most recent standings blob under one option
// key. A missing value reads as the built-in default.
type StandingsCache struct {
	store  standings.OptionStore
	key    string
	logger *logging.Logger
}

func NewStandingsCache(store standings.OptionStore, key string, logger *logging.Logger) *StandingsCache {
	if logger == nil {
		logger = logging.Default()
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = standings.DefaultOptionKey
	}
	return &StandingsCache{store: store, key: key, logger: logger}
}

func (c *StandingsCache) Key() string {
	return c.key
}

// Read returns the stored blob. When nothing is stored the default blob is
// persisted and returned.
func (c *StandingsCache) Read(ctx context.Context) (standings.Blob, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return "", crerr.Wrapf(err, "read standings cache key=%s", c.key)
	}
	if ok && strings.TrimSpace(raw) != "" {
		return standings.Blob(raw), nil
	}

	if err := c.store.Set(ctx, c.key, standings.DefaultBlob.String()); err != nil {
		c.logger.WarnContext(ctx, "persist default standings failed", "key", c.key, "error", err)
	} else {
		c.logger.DebugContext(ctx, "standings cache seeded with default", "key", c.key)
	}
	return standings.DefaultBlob, nil
}

// Write replaces the stored blob.
func (c *StandingsCache) Write(ctx context.Context, blob standings.Blob) error {
	if err := c.store.Set(ctx, c.key, blob.String()); err != nil {
		return crerr.Wrapf(err, "write standings cache key=%s", c.key)
	}
	c.logger.DebugContext(ctx, "standings cache updated",
		"key", c.key,
		"bytes", len(blob),
		"value", abbreviate(blob.String(), logValuePreviewLimit),
	)
	return nil
}

// Clear removes the stored blob so the next Read yields the default.
func (c *StandingsCache) Clear(ctx context.Context) error {
	if err := c.store.Delete(ctx, c.key); err != nil {
		return crerr.Wrapf(err, "clear standings cache key=%s", c.key)
	}
	c.logger.InfoContext(ctx, "standings cache cleared", "key", c.key)
	return nil
}

func abbreviate(value string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit]) + "..."
}
