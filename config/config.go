package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Assets   AssetConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	CORSOrigins    []string
	WriteRatePerS  float64
	WriteRateBurst int
}

type StoreConfig struct {
	Backend  string
	SeedFile string
}

type DatabaseConfig struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	MaxConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AssetConfig struct {
	PublicDir      string
	ImageDir       string
	UploadMaxBytes int64
	CacheSeconds   int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3001"),
			CORSOrigins:    getEnvAsList("CORS_ORIGINS", []string{"*"}),
			WriteRatePerS:  getEnvAsFloat("WRITE_RATE_PER_SEC", 5),
			WriteRateBurst: getEnvAsInt("WRITE_RATE_BURST", 10),
		},
		Store: StoreConfig{
			Backend:  strings.ToLower(getEnv("STORE_BACKEND", StoreMemory)),
			SeedFile: getEnv("SEED_FILE", ""),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "portfolio"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Assets: AssetConfig{
			PublicDir:      getEnv("PUBLIC_DIR", "public"),
			ImageDir:       getEnv("IMAGE_DIR", "public/images"),
			UploadMaxBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 5<<20)),
			CacheSeconds:   getEnvAsInt("ASSET_CACHE_SECONDS", 3600),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StorePostgres:
		if c.Database.DSN == "" && c.Database.Host == "" {
			return fmt.Errorf("DB_DSN or DB_HOST is required for the postgres store")
		}
	case StoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	if c.Assets.ImageDir == "" {
		return fmt.Errorf("IMAGE_DIR is required")
	}
	if c.Assets.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}

	return nil
}

// PostgresDSN returns DB_DSN when set, otherwise a DSN built from the DB_* parts.
func (d DatabaseConfig) PostgresDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	out := make([]string, 0, 4)
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
