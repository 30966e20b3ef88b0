package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DBPath != "data/codecloud.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.JDoodleURL != "https://api.jdoodle.com/v1/execute" {
		t.Errorf("JDoodleURL = %q", cfg.JDoodleURL)
	}
	if cfg.ExecutionTimeout != 30*time.Second {
		t.Errorf("ExecutionTimeout = %v, want 30s", cfg.ExecutionTimeout)
	}
	if cfg.JWTSecret != DefaultJWTSecret {
		t.Errorf("JWTSecret = %q, want the development default", cfg.JWTSecret)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("EXECUTION_TIMEOUT_SECONDS", "5")
	t.Setenv("JWT_SECRET", "a-secret-for-tests-only!")

	cfg := Load()

	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ExecutionTimeout != 5*time.Second {
		t.Errorf("ExecutionTimeout = %v, want 5s", cfg.ExecutionTimeout)
	}
	if cfg.JWTSecret != "a-secret-for-tests-only!" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want default 8080 for unparseable value", cfg.Port)
	}
}
