// Package config loads process configuration from the environment, the
// same way the teacher service does: godotenv for local development,
// plain os.LookupEnv with defaults everywhere else.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	WorkerConcurrency int

	SandboxJobs      string
	SandboxConfigDir string
	LauncherBin      string

	ResultTTLSeconds int
	CacheTTLSeconds  int

	RateLimitMax    int
	RateLimitWindow int

	Environment string

	EventsNatsURL string

	BetterStackUploadURL   string
	BetterStackSourceToken string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	return Config{
		Port: getEnv("PORT", "8080"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 4),

		SandboxJobs:      getEnv("SANDBOX_JOBS", "/tmp/codearena/jobs"),
		SandboxConfigDir: getEnv("SANDBOX_CONFIG_DIR", "configs/sandbox"),
		LauncherBin:      getEnv("LAUNCHER_BIN", "nsjail"),

		ResultTTLSeconds: getEnvInt("RESULT_TTL_SECONDS", 300),
		CacheTTLSeconds:  getEnvInt("CACHE_TTL_SECONDS", 3600),

		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 10),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),

		Environment: getEnv("ENVIRONMENT", "production"),

		EventsNatsURL: getEnv("EVENTS_NATS_URL", ""),

		BetterStackUploadURL:   getEnv("BETTERSTACK_UPLOAD_URL", ""),
		BetterStackSourceToken: getEnv("BETTERSTACK_SOURCE_TOKEN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
