package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, int64(5<<20), cfg.Assets.UploadMaxBytes)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("UPLOAD_MAX_BYTES", "1024")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, int64(1024), cfg.Assets.UploadMaxBytes)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "3001"},
			Store:  StoreConfig{Backend: StoreMemory},
			Assets: AssetConfig{ImageDir: "public/images", UploadMaxBytes: 10},
		}
	}

	t.Run("valid memory config", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := base()
		cfg.Store.Backend = "mongo"
		assert.Error(t, cfg.Validate())
	})

	t.Run("redis without address", func(t *testing.T) {
		cfg := base()
		cfg.Store.Backend = StoreRedis
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		cfg := base()
		cfg.Server.Port = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestPostgresDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "n"}
	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=disable", d.PostgresDSN())

	d.DSN = "postgres://x"
	assert.Equal(t, "postgres://x", d.PostgresDSN())
}
