package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/getstandings/internal/config"
	"github.com/riskibarqy/getstandings/internal/domain/jobscheduler"
	"github.com/riskibarqy/getstandings/internal/domain/standings"
	"github.com/riskibarqy/getstandings/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/getstandings/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/getstandings/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/getstandings/internal/infrastructure/repository/redisstore"
	"github.com/riskibarqy/getstandings/internal/platform/logging"
)

// stores groups the persistence the standings components share.
type stores struct {
	options    standings.OptionStore
	tasks      jobscheduler.TaskRepository
	dispatches jobscheduler.Repository
	closers    []func() error
}

func buildStores(ctx context.Context, cfg config.Config, logger *logging.Logger) (*stores, error) {
	var (
		out *stores
		err error
	)

	switch cfg.StoreBackend {
	case config.StorePostgres:
		out, err = postgresStores(ctx, cfg)
	case config.StoreRedis:
		out, err = redisStores(ctx, cfg)
	case config.StoreMemory, "":
		out = memoryStores()
	default:
		err = fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
	if err != nil {
		return nil, err
	}

	// Memory reads are already local.
	if cfg.CacheEnabled && cfg.StoreBackend != config.StoreMemory && cfg.StoreBackend != "" {
		out.options = cache.NewOptionRepository(out.options, cfg.CacheTTL)
	}

	logger.Info("stores ready",
		"backend", cfg.StoreBackend,
		"cache_enabled", cfg.CacheEnabled,
		"cache_ttl", cfg.CacheTTL,
	)
	return out, nil
}

func memoryStores() *stores {
	return &stores{
		options:    memory.NewOptionRepository(),
		tasks:      memory.NewTaskRepository(),
		dispatches: memory.NewJobDispatchRepository(),
	}
}

func postgresStores(ctx context.Context, cfg config.Config) (*stores, error) {
	db, err := openDatabase(ctx, cfg.DBURL, cfg.DBDisablePreparedBinary)
	if err != nil {
		return nil, err
	}
	return &stores{
		options:    postgres.NewOptionRepository(db),
		tasks:      postgres.NewTaskRepository(db),
		dispatches: postgres.NewJobDispatchRepository(db),
		closers:    []func() error{db.Close},
	}, nil
}

// redisStores keeps the dispatch log in memory; only options and tasks need
// to survive a restart.
func redisStores(ctx context.Context, cfg config.Config) (*stores, error) {
	client, err := redisstore.Open(ctx, redisstore.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}
	return &stores{
		options:    redisstore.NewOptionRepository(client, cfg.RedisKeyPrefix),
		tasks:      redisstore.NewTaskRepository(client, cfg.RedisKeyPrefix),
		dispatches: memory.NewJobDispatchRepository(),
		closers:    []func() error{client.Close},
	}, nil
}
