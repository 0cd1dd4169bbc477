package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Dataset.Dir != "data" {
		t.Errorf("Dataset.Dir = %q, want %q", cfg.Dataset.Dir, "data")
	}
	if cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("AI.Model = %q, want gpt-4o-mini", cfg.AI.Model)
	}
	if cfg.AI.SummarizerTimeout != 8*time.Second {
		t.Errorf("SummarizerTimeout = %s, want 8s", cfg.AI.SummarizerTimeout)
	}
	if cfg.Address() != "localhost:3000" {
		t.Errorf("Address() = %q", cfg.Address())
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATASET_DIR", "/srv/data")
	t.Setenv("SECURITY_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SUMMARIZER_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Dataset.Dir != "/srv/data" {
		t.Errorf("Dataset.Dir = %q", cfg.Dataset.Dir)
	}
	if len(cfg.Security.AllowedOrigins) != 2 || cfg.Security.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.Security.AllowedOrigins)
	}
	if !cfg.AI.Enabled() {
		t.Error("AI should be enabled when OPENAI_API_KEY is set")
	}
	if cfg.AI.SummarizerTimeout != 2*time.Second {
		t.Errorf("SummarizerTimeout = %s, want 2s", cfg.AI.SummarizerTimeout)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"zero rps", "SECURITY_RATE_LIMIT_RPS", "0"},
		{"summarizer slower than writes", "SUMMARIZER_TIMEOUT", "45s"},
		{"unparseable duration", "SERVER_READ_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s should fail", tt.key, tt.value)
			}
		})
	}
}

func TestAIConfig_EnabledBlankKey(t *testing.T) {
	if (AIConfig{APIKey: "   "}).Enabled() {
		t.Error("blank key should not enable AI")
	}
}
