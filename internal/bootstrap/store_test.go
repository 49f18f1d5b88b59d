package bootstrap

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jwd-portfolio/portfolio-backend/config"
	"github.com/jwd-portfolio/portfolio-backend/internal/projects/repository"
)

func TestOpenStore_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: config.StoreMemory}}

	store, closeFn, err := OpenStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &repository.MemoryStore{}, store)
}

func TestOpenStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Store: config.StoreConfig{Backend: config.StoreRedis},
		Redis: config.RedisConfig{Addr: mr.Addr()},
	}

	store, closeFn, err := OpenStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &repository.RedisStore{}, store)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestOpenStore_Errors(t *testing.T) {
	ctx := context.Background()

	_, _, err := OpenStore(ctx, &config.Config{Store: config.StoreConfig{Backend: "mongo"}}, zap.NewNop())
	assert.ErrorContains(t, err, "unknown store backend")

	_, _, err = OpenStore(ctx, &config.Config{Store: config.StoreConfig{Backend: config.StoreRedis}}, zap.NewNop())
	assert.ErrorContains(t, err, "REDIS_ADDR is not set")
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("production", "warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	logger, err = NewLogger("development", "")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	_, err = NewLogger("production", "loud")
	assert.Error(t, err)
}
