package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadFrom_Defaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Memory.Backend != "qdrant" {
		t.Errorf("expected default backend qdrant, got %s", cfg.Memory.Backend)
	}
	if cfg.Memory.SearchLimit != 5 {
		t.Errorf("expected default search limit 5, got %d", cfg.Memory.SearchLimit)
	}
	if cfg.Memory.HistoryWindow != 10 {
		t.Errorf("expected default history window 10, got %d", cfg.Memory.HistoryWindow)
	}
}

func TestLoadFrom_YAMLOverridesDefaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	path := filepath.Join(t.TempDir(), "concierge.yaml")
	data := `
server:
  port: "9090"
memory:
  collection: course_memory
retry:
  attempts: 5
  base_delay: 1s
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Memory.Collection != "course_memory" {
		t.Errorf("expected collection course_memory, got %s", cfg.Memory.Collection)
	}
	if cfg.Retry.Attempts != 5 || cfg.Retry.BaseDelay != time.Second {
		t.Errorf("unexpected retry config: %+v", cfg.Retry)
	}
}

func TestLoadFrom_EnvOverridesYAML(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CONCIERGE_PORT", "7070")
	t.Setenv("CONCIERGE_MEMORY_BACKEND", "memory")
	t.Setenv("CONCIERGE_EMBED_PROVIDER", "dev")

	path := filepath.Join(t.TempDir(), "concierge.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("expected env port 7070, got %s", cfg.Server.Port)
	}
	if cfg.Memory.Backend != "memory" {
		t.Errorf("expected backend memory, got %s", cfg.Memory.Backend)
	}
	if cfg.Embedding.Provider != "dev" {
		t.Errorf("expected embedding provider dev, got %s", cfg.Embedding.Provider)
	}
}

func TestLoadFrom_MissingCredentialIsFatal(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing GROQ_API_KEY")
	}
	if !strings.Contains(err.Error(), "GROQ_API_KEY") {
		t.Errorf("error should name the missing variable, got %q", err)
	}
}

func TestLoadFrom_UnknownBackendRejected(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CONCIERGE_MEMORY_BACKEND", "redis")

	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
