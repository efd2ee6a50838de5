package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "ENV", "LLM_PROVIDER", "SESSION_TTL", "PARSE_MAX_PAGES", "RESPONSES_STORE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
	if cfg.LLMProvider != "none" {
		t.Fatalf("expected provider none, got %q", cfg.LLMProvider)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Fatalf("expected 7 day session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.ParseMaxPages != 20 {
		t.Fatalf("expected 20 pages, got %d", cfg.ParseMaxPages)
	}
	if cfg.ResponsesStore != "auto" {
		t.Fatalf("expected auto store, got %q", cfg.ResponsesStore)
	}
}

func TestLoadReadsEnvFileWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := "PORT=9090\nLLM_PROVIDER=Gemini\nPARSE_TIMEOUT=5s\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("PARSE_TIMEOUT", "")
	os.Unsetenv("LLM_PROVIDER")
	os.Unsetenv("PARSE_TIMEOUT")

	cfg := Load()

	if cfg.Port != "7070" {
		t.Fatalf("expected process env to win, got %q", cfg.Port)
	}
	if cfg.LLMProvider != "gemini" {
		t.Fatalf("expected gemini, got %q", cfg.LLMProvider)
	}
	if cfg.ParseTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.ParseTimeout)
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PARSE_MAX_PAGES", "lots")
	t.Setenv("SESSION_TTL", "-1h")

	cfg := Load()

	if cfg.ParseMaxPages != 20 {
		t.Fatalf("expected fallback 20, got %d", cfg.ParseMaxPages)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Fatalf("expected fallback ttl, got %s", cfg.SessionTTL)
	}
}
