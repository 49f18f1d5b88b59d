package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jwd-portfolio/portfolio-backend/config"
	"github.com/jwd-portfolio/portfolio-backend/internal/projects/repository"
	"github.com/jwd-portfolio/portfolio-backend/internal/projects/service"
)

// OpenStore builds the configured project store. The returned func releases
// its connections.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		dsn := cfg.Database.PostgresDSN()
		if err := repository.RunMigrations(dsn, logger); err != nil {
			return nil, nil, err
		}
		pool, err := OpenDB(ctx, DBOptions{DSN: dsn, MaxConns: int32(cfg.Database.MaxConns)})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using postgres project store", zap.String("host", cfg.Database.Host))
		return repository.NewPostgresStore(pool), pool.Close, nil

	case config.StoreRedis:
		client, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using redis project store", zap.String("addr", cfg.Redis.Addr))
		return repository.NewRedisStore(client), func() { _ = client.Close() }, nil

	case config.StoreMemory, "":
		logger.Info("using in-memory project store")
		return repository.NewMemoryStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
