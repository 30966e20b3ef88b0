// Package config loads server configuration from environment variables.
//
// All settings are plain key-value env vars with sensible defaults, except the
// JDoodle provider credentials which have none (runs are rejected without them).
// A .env file in the working directory is loaded first if present, so local
// development doesn't need to export anything.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the development fallback signing key. main.go warns
// loudly when the server runs with it.
const DefaultJWTSecret = "insecure-dev-secret-change-me"

// Config holds every runtime setting for the server.
type Config struct {
	Port      int
	DBPath    string
	StaticDir string

	// JWTSecret signs bearer tokens. The default only exists so local
	// development works out of the box; production must override it.
	JWTSecret string

	// JDoodle execution provider credentials and endpoint.
	JDoodleClientID     string
	JDoodleClientSecret string
	JDoodleURL          string
	ExecutionTimeout    time.Duration

	// Optional GitHub OAuth sign-in. Routes are registered only when both
	// client ID and secret are set.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Load reads configuration from the environment, pulling in a .env file first
// when one exists. It never fails on a missing .env — environment variables
// alone are a perfectly valid configuration source.
func Load() *Config {
	// Best effort: absent .env just means "use the real environment".
	_ = godotenv.Load()

	return &Config{
		Port:                getEnvAsInt("PORT", 8080),
		DBPath:              getEnv("DB_PATH", "data/codecloud.db"),
		StaticDir:           getEnv("STATIC_DIR", ""),
		JWTSecret:           getEnv("JWT_SECRET", DefaultJWTSecret),
		JDoodleClientID:     getEnv("JDOODLE_CLIENT_ID", ""),
		JDoodleClientSecret: getEnv("JDOODLE_CLIENT_SECRET", ""),
		JDoodleURL:          getEnv("JDOODLE_URL", "https://api.jdoodle.com/v1/execute"),
		ExecutionTimeout:    time.Duration(getEnvAsInt("EXECUTION_TIMEOUT_SECONDS", 30)) * time.Second,
		GitHubClientID:      getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret:  getEnv("GITHUB_CLIENT_SECRET", ""),
		GitHubCallbackURL:   getEnv("GITHUB_CALLBACK_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
