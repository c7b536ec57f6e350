package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/socialchef/chefgpt/internal/httpclient"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	GroqBaseURL    = "https://api.groq.com/openai/v1"

	DefaultRecipeModel = "gpt-5-mini"
	DefaultChatModel   = "gpt-4.1-nano"
	DefaultImageModel  = "gpt-image-1-mini"
	DefaultImageSize   = "1024x1024"
)

var (
	ErrNoResponse = errors.New("no response from model provider")
	ErrNoImage    = errors.New("no image generated")
)

// Message is one role-tagged entry in a chat completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options configures a Client. Zero values fall back to OpenAI defaults.
type Options struct {
	// Provider names the upstream in spans and metrics ("OpenAI", "Groq").
	Provider    string
	APIKey      string
	BaseURL     string
	RecipeModel string
	ChatModel   string
	ImageModel  string
	ImageSize   string
	HTTPClient  *http.Client
}

// Client talks to an OpenAI-compatible REST API.
type Client struct {
	provider    string
	apiKey      string
	baseURL     string
	recipeModel string
	chatModel   string
	imageModel  string
	imageSize   string
	httpClient  *http.Client
}

func NewClient(opts Options) *Client {
	c := &Client{
		provider:    opts.Provider,
		apiKey:      opts.APIKey,
		baseURL:     strings.TrimSuffix(opts.BaseURL, "/"),
		recipeModel: opts.RecipeModel,
		chatModel:   opts.ChatModel,
		imageModel:  opts.ImageModel,
		imageSize:   opts.ImageSize,
		httpClient:  opts.HTTPClient,
	}
	if c.provider == "" {
		c.provider = "OpenAI"
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.recipeModel == "" {
		c.recipeModel = DefaultRecipeModel
	}
	if c.chatModel == "" {
		c.chatModel = DefaultChatModel
	}
	if c.imageModel == "" {
		c.imageModel = DefaultImageModel
	}
	if c.imageSize == "" {
		c.imageSize = DefaultImageSize
	}
	if c.httpClient == nil {
		c.httpClient = httpclient.InstrumentedClient
	}
	return c
}

// Provider returns the upstream name used in spans and metrics.
func (c *Client) Provider() string {
	return c.provider
}

// ChatJSON requests a JSON-object formatted completion from the recipe model.
func (c *Client) ChatJSON(ctx context.Context, systemPrompt, userContent string) (string, error) {
	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userContent},
	}
	return c.callChat(ctx, c.recipeModel, messages, true)
}

// ChatText requests a free-text completion from the chat model.
func (c *Client) ChatText(ctx context.Context, messages []Message) (string, error) {
	return c.callChat(ctx, c.chatModel, messages, false)
}

// GenerateImage requests a single image and returns its URL. Providers that
// only return base64 data get a data: URL instead.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return c.callImage(ctx, c.imageModel, prompt, c.imageSize)
}
