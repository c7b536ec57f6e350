package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadRateLimitConfig(t *testing.T) {
	configContent := `rate_limit:
  store: redis
  window: 30m
  quota: 10
  sweep_interval: 5m
  key_prefix: "rl:"`

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.yaml")

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg := &Config{}
	err = cfg.LoadFromYAML(configPath)
	if err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}

	if cfg.RateLimit.Store != "redis" {
		t.Errorf("Expected store to be 'redis', got '%s'", cfg.RateLimit.Store)
	}
	if cfg.RateLimit.Window != 30*time.Minute {
		t.Errorf("Expected window to be 30m, got %v", cfg.RateLimit.Window)
	}
	if cfg.RateLimit.Quota != 10 {
		t.Errorf("Expected quota to be 10, got %d", cfg.RateLimit.Quota)
	}
	if cfg.RateLimit.SweepInterval != 5*time.Minute {
		t.Errorf("Expected sweep_interval to be 5m, got %v", cfg.RateLimit.SweepInterval)
	}
	if cfg.RateLimit.KeyPrefix != "rl:" {
		t.Errorf("Expected key_prefix to be 'rl:', got '%s'", cfg.RateLimit.KeyPrefix)
	}
}

func TestLoadModelConfigPartial(t *testing.T) {
	configContent := `model:
  provider: groq`

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config_partial.yaml")

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg := &Config{}
	if err := cfg.LoadFromYAML(configPath); err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}
	cfg.SetModelDefaults()

	if cfg.Model.Provider != "groq" {
		t.Errorf("Expected provider to be 'groq', got '%s'", cfg.Model.Provider)
	}
	if cfg.Model.RecipeModel != "llama-3.3-70b-versatile" {
		t.Errorf("Expected groq recipe model default, got '%s'", cfg.Model.RecipeModel)
	}
	if cfg.Model.ImageModel != "gpt-image-1-mini" {
		t.Errorf("Expected image model default, got '%s'", cfg.Model.ImageModel)
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetRateLimitDefaults()
	cfg.SetModelDefaults()

	if cfg.RateLimit.Store != "memory" {
		t.Errorf("Expected store 'memory', got '%s'", cfg.RateLimit.Store)
	}
	if cfg.RateLimit.Window != time.Hour {
		t.Errorf("Expected window 1h, got %v", cfg.RateLimit.Window)
	}
	if cfg.RateLimit.Quota != 5 {
		t.Errorf("Expected quota 5, got %d", cfg.RateLimit.Quota)
	}
	if cfg.RateLimit.SweepInterval != 0 {
		t.Errorf("Expected sweeping disabled by default, got %v", cfg.RateLimit.SweepInterval)
	}
	if cfg.Model.RecipeModel != "gpt-5-mini" {
		t.Errorf("Expected recipe model 'gpt-5-mini', got '%s'", cfg.Model.RecipeModel)
	}
	if cfg.Model.ChatModel != "gpt-4.1-nano" {
		t.Errorf("Expected chat model 'gpt-4.1-nano', got '%s'", cfg.Model.ChatModel)
	}
	if cfg.Model.ImageSize != "1024x1024" {
		t.Errorf("Expected image size '1024x1024', got '%s'", cfg.Model.ImageSize)
	}
}

func TestLoadFromYAMLFileNotFound(t *testing.T) {
	cfg := &Config{}
	err := cfg.LoadFromYAML("non_existent_file.yaml")

	if err != nil {
		t.Errorf("Expected no error for non-existent file, got: %v", err)
	}
}

func TestLoadFromYAMLInvalid(t *testing.T) {
	configContent := `rate_limit:
  store: memory
  invalid_yaml: [unclosed`

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config_invalid.yaml")

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg := &Config{}
	err = cfg.LoadFromYAML(configPath)
	if err == nil {
		t.Error("Expected error for invalid YAML, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "missing openai key",
			cfg:     Config{RateLimit: RateLimitConfig{Store: "memory"}},
			wantErr: true,
		},
		{
			name:    "memory store",
			cfg:     Config{OpenAIKey: "sk-test", RateLimit: RateLimitConfig{Store: "memory"}},
			wantErr: false,
		},
		{
			name:    "redis store without url",
			cfg:     Config{OpenAIKey: "sk-test", RateLimit: RateLimitConfig{Store: "redis"}},
			wantErr: true,
		},
		{
			name:    "groq without key",
			cfg:     Config{OpenAIKey: "sk-test", Model: ModelConfig{Provider: "groq"}, RateLimit: RateLimitConfig{Store: "memory"}},
			wantErr: true,
		},
		{
			name:    "unknown store",
			cfg:     Config{OpenAIKey: "sk-test", RateLimit: RateLimitConfig{Store: "etcd"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOTLPHeaders(t *testing.T) {
	cfg := &Config{OtelExporterOTLPHeaders: "Authorization=Bearer abc, x-team = chef,broken"}
	headers := cfg.OTLPHeaders()

	if len(headers) != 2 {
		t.Fatalf("Expected 2 headers, got %d: %v", len(headers), headers)
	}
	if headers["Authorization"] != "Bearer abc" {
		t.Errorf("unexpected Authorization header %q", headers["Authorization"])
	}
	if headers["x-team"] != "chef" {
		t.Errorf("unexpected x-team header %q", headers["x-team"])
	}

	if (&Config{}).OTLPHeaders() != nil {
		t.Error("Expected nil headers when unset")
	}
}

func TestLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("rate_limit:\n  quota: 3\n"), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", configPath)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("PORT", "")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when OPENAI_API_KEY is unset, got nil")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RateLimit.Quota != 3 {
		t.Errorf("Expected quota 3 from YAML, got %d", cfg.RateLimit.Quota)
	}
	if cfg.RateLimit.Window != time.Hour {
		t.Errorf("Expected default window 1h, got %v", cfg.RateLimit.Window)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.Port)
	}
}
