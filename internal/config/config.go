package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	RedisURL string

	OpenAIKey string
	GroqKey   string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	Port string

	RateLimit RateLimitConfig
	Model     ModelConfig
}

// RateLimitConfig controls recipe generation admission.
type RateLimitConfig struct {
	// Store is "memory" (process-local) or "redis" (shared via REDIS_URL).
	Store         string        `yaml:"store"`
	Window        time.Duration `yaml:"window"`
	Quota         int           `yaml:"quota"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	KeyPrefix     string        `yaml:"key_prefix"`
}

// ModelConfig selects the chat provider and the models used for each call.
type ModelConfig struct {
	Provider    string `yaml:"provider"`
	BaseURL     string `yaml:"base_url"`
	RecipeModel string `yaml:"recipe_model"`
	ChatModel   string `yaml:"chat_model"`
	ImageModel  string `yaml:"image_model"`
	ImageSize   string `yaml:"image_size"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		OpenAIKey:                os.Getenv("OPENAI_API_KEY"),
		GroqKey:                  os.Getenv("GROQ_API_KEY"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
		Port:                     os.Getenv("PORT"),
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	if err := cfg.LoadFromYAML(path); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "socialchef-chefgpt"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.SetRateLimitDefaults()
	cfg.SetModelDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		RateLimit RateLimitConfig `yaml:"rate_limit"`
		Model     ModelConfig     `yaml:"model"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	rl := yamlConfig.RateLimit
	if rl.Store != "" {
		c.RateLimit.Store = rl.Store
	}
	if rl.Window > 0 {
		c.RateLimit.Window = rl.Window
	}
	if rl.Quota > 0 {
		c.RateLimit.Quota = rl.Quota
	}
	if rl.SweepInterval > 0 {
		c.RateLimit.SweepInterval = rl.SweepInterval
	}
	if rl.KeyPrefix != "" {
		c.RateLimit.KeyPrefix = rl.KeyPrefix
	}

	m := yamlConfig.Model
	if m.Provider != "" {
		c.Model.Provider = m.Provider
	}
	if m.BaseURL != "" {
		c.Model.BaseURL = m.BaseURL
	}
	if m.RecipeModel != "" {
		c.Model.RecipeModel = m.RecipeModel
	}
	if m.ChatModel != "" {
		c.Model.ChatModel = m.ChatModel
	}
	if m.ImageModel != "" {
		c.Model.ImageModel = m.ImageModel
	}
	if m.ImageSize != "" {
		c.Model.ImageSize = m.ImageSize
	}

	return nil
}

func (c *Config) SetRateLimitDefaults() {
	if c.RateLimit.Store == "" {
		c.RateLimit.Store = "memory"
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = time.Hour
	}
	if c.RateLimit.Quota <= 0 {
		c.RateLimit.Quota = 5
	}
	if c.RateLimit.KeyPrefix == "" {
		c.RateLimit.KeyPrefix = "rate_limit:recipe_generation:"
	}
}

func (c *Config) SetModelDefaults() {
	if c.Model.Provider == "" {
		c.Model.Provider = "openai"
	}
	if c.Model.RecipeModel == "" {
		switch c.Model.Provider {
		case "groq":
			c.Model.RecipeModel = "llama-3.3-70b-versatile"
		default:
			c.Model.RecipeModel = "gpt-5-mini"
		}
	}
	if c.Model.ChatModel == "" {
		switch c.Model.Provider {
		case "groq":
			c.Model.ChatModel = "llama-3.1-8b-instant"
		default:
			c.Model.ChatModel = "gpt-4.1-nano"
		}
	}
	if c.Model.ImageModel == "" {
		c.Model.ImageModel = "gpt-image-1-mini"
	}
	if c.Model.ImageSize == "" {
		c.Model.ImageSize = "1024x1024"
	}
}

// OTLPHeaders parses OTEL_EXPORTER_OTLP_HEADERS ("k1=v1,k2=v2").
func (c *Config) OTLPHeaders() map[string]string {
	if c.OtelExporterOTLPHeaders == "" {
		return nil
	}
	headers := make(map[string]string)
	for _, pair := range strings.Split(c.OtelExporterOTLPHeaders, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers
}

func (c *Config) validate() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Model.Provider == "groq" && c.GroqKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required when model.provider is groq")
	}
	switch c.RateLimit.Store {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when rate_limit.store is redis")
		}
	default:
		return fmt.Errorf("unknown rate_limit.store %q", c.RateLimit.Store)
	}
	return nil
}
