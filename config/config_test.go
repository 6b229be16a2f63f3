package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("DB_NAME")
	os.Unsetenv("SESSION_TTL_HOURS")
	os.Unsetenv("SESSION_COOKIE_NAME")

	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.ServerPort)
	}
	if cfg.DBName != "tynda_music" {
		t.Errorf("expected default db name tynda_music, got %s", cfg.DBName)
	}
	if cfg.SessionCookieName != "tynda_session" {
		t.Errorf("expected default cookie name tynda_session, got %s", cfg.SessionCookieName)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("expected default session TTL 24h, got %s", cfg.SessionTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Setenv("SERVER_PORT", "9000")
	os.Setenv("SESSION_TTL_HOURS", "2")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("SESSION_TTL_HOURS")
	}()

	cfg := Load()

	if cfg.ServerPort != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.ServerPort)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("expected session TTL 2h, got %s", cfg.SessionTTL)
	}
}

func TestGetEnvInt_Garbage(t *testing.T) {
	os.Setenv("REDIS_DB", "not-a-number")
	defer os.Unsetenv("REDIS_DB")

	cfg := Load()
	if cfg.RedisDB != 0 {
		t.Errorf("expected fallback 0 for garbage REDIS_DB, got %d", cfg.RedisDB)
	}
}
