package recipe

import (
	"github.com/socialchef/chefgpt/internal/config"
	"github.com/socialchef/chefgpt/internal/services/openai"
)

// NewChatModel creates the client serving recipe and chat completions based
// on the configured provider
func NewChatModel(cfg config.ModelConfig, openAIKey, groqKey string) ChatModel {
	switch ProviderType(cfg.Provider) {
	case ProviderGroq:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = openai.GroqBaseURL
		}
		return openai.NewClient(openai.Options{
			Provider:    "Groq",
			APIKey:      groqKey,
			BaseURL:     baseURL,
			RecipeModel: cfg.RecipeModel,
			ChatModel:   cfg.ChatModel,
		})
	default:
		return openai.NewClient(openai.Options{
			Provider:    "OpenAI",
			APIKey:      openAIKey,
			BaseURL:     cfg.BaseURL,
			RecipeModel: cfg.RecipeModel,
			ChatModel:   cfg.ChatModel,
		})
	}
}

// NewImageModel creates the image client. Images always go to OpenAI since
// Groq has no image endpoint.
func NewImageModel(cfg config.ModelConfig, openAIKey string) ImageModel {
	baseURL := cfg.BaseURL
	if ProviderType(cfg.Provider) == ProviderGroq {
		baseURL = ""
	}
	return openai.NewClient(openai.Options{
		Provider:   "OpenAI",
		APIKey:     openAIKey,
		BaseURL:    baseURL,
		ImageModel: cfg.ImageModel,
		ImageSize:  cfg.ImageSize,
	})
}
