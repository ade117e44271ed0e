package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Server captures process-level configuration.
type Server struct {
	Addr        string
	Environment string

	// CatalogPath points to a YAML catalog replacing the built-in one.
	CatalogPath string

	SnapshotTTL      time.Duration
	BatchConcurrency int
	RequestTimeout   time.Duration
	Redis            RedisConfig
}

// RedisConfig configures the optional Redis snapshot store.
// An empty URL keeps snapshots in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Defaults applied when the environment is silent.
var (
	DefaultSnapshotTTL      = 24 * time.Hour
	DefaultBatchConcurrency = 8
	DefaultRequestTimeout   = 30 * time.Second
)

// IsDevelopment reports whether the server runs with development defaults.
func (s Server) IsDevelopment() bool {
	return s.Environment == "development"
}

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present; real
// environment variables take precedence over it.
func FromEnv() Server {
	_ = godotenv.Load()

	return Server{
		Addr:             getEnv("AIDENGINE_ADDR", ":8080"),
		Environment:      getEnv("APP_ENV", "production"),
		CatalogPath:      os.Getenv("CATALOG_PATH"),
		SnapshotTTL:      durationEnv("SNAPSHOT_TTL", DefaultSnapshotTTL),
		BatchConcurrency: intEnv("BATCH_CONCURRENCY", DefaultBatchConcurrency),
		RequestTimeout:   durationEnv("REQUEST_TIMEOUT", DefaultRequestTimeout),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
