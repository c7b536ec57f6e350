package recipe

import (
	"context"

	"github.com/socialchef/chefgpt/internal/services/openai"
)

// ProviderType represents the upstream serving the chat paths
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderGroq   ProviderType = "groq"
)

// ChatModel produces recipe JSON and free-text chat replies.
type ChatModel interface {
	ChatJSON(ctx context.Context, systemPrompt, userContent string) (string, error)
	ChatText(ctx context.Context, messages []ChatTurn) (string, error)
}

// ImageModel renders a dish from a short visual description.
type ImageModel interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// ChatTurn is one role-tagged message sent to the chat model.
type ChatTurn = openai.Message
