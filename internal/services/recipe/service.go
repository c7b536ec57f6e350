package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/socialchef/chefgpt/internal/errors"
	"github.com/socialchef/chefgpt/internal/logger"
	"github.com/socialchef/chefgpt/internal/metrics"
	"github.com/socialchef/chefgpt/internal/ratelimit"
	"github.com/socialchef/chefgpt/internal/services/ai"
	"github.com/socialchef/chefgpt/internal/telemetry"
	"github.com/socialchef/chefgpt/internal/validation"
)

const (
	UnknownIdentifier = "unknown"

	MsgNoIngredients  = "Please add at least one ingredient."
	MsgGenerateFailed = "Failed to generate recipe. Please try again."
	MsgImageFailed    = "Failed to generate image. Please try again."
	MsgChatFailed     = "Failed to get a reply from the chef. Please try again."
)

// Service coordinates rate limiting, prompt construction and model calls.
type Service struct {
	limiter ratelimit.Limiter
	chat    ChatModel
	images  ImageModel
}

func NewService(limiter ratelimit.Limiter, chat ChatModel, images ImageModel) *Service {
	return &Service{
		limiter: limiter,
		chat:    chat,
		images:  images,
	}
}

// GenerateRecipe admits the caller, asks the model for a recipe and validates
// the reply. It never returns an error; failures are reported in the Result.
func (s *Service) GenerateRecipe(ctx context.Context, identifier string, ingredients []string, strictMode bool) (res Result) {
	ctx, span := telemetry.Tracer("recipe").Start(ctx, "recipe.generate")
	defer span.End()

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(ctx, "Recipe generation panicked", "panic", fmt.Sprint(rec), logger.WithTraceContext(ctx))
			res = failure(apperrors.NewInternalError(MsgGenerateFailed, "RECIPE_PANIC", fmt.Errorf("panic: %v", rec)))
		}

		outcome := "success"
		if !res.Success {
			outcome = strings.ToLower(string(res.Err.Type))
			span.SetStatus(codes.Error, res.Error)
		}
		attrs := metric.WithAttributes(attribute.String("outcome", outcome))
		metrics.RecipeGenerationsTotal.Add(ctx, 1, attrs)
		metrics.RecipeGenerationDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	}()

	if identifier == "" {
		identifier = UnknownIdentifier
	}
	ingredients = validation.SanitizeList(ingredients)
	span.SetAttributes(
		attribute.String("client.id", identifier),
		attribute.Int("recipe.ingredients_count", len(ingredients)),
		attribute.Bool("recipe.strict_mode", strictMode),
	)

	if len(ingredients) == 0 {
		return failure(apperrors.NewValidationError(MsgNoIngredients, "NO_INGREDIENTS", "Add at least one ingredient."))
	}

	allowed, err := s.limiter.Allow(ctx, identifier)
	if err != nil {
		// Limiter store unavailable: admit the request.
		slog.WarnContext(ctx, "Rate limiter unavailable, admitting request", "client_id", identifier, "error", err, logger.WithTraceContext(ctx))
		allowed = true
	}
	if !allowed {
		metrics.RateLimitRejectionsTotal.Add(ctx, 1)
		slog.InfoContext(ctx, "Recipe generation rate limited", "client_id", identifier)
		return failure(apperrors.NewRateLimitError(
			rateLimitMessage(s.limiter.Quota(), s.limiter.Window()),
			"RATE_LIMITED",
			"Wait a while before generating another recipe.",
		))
	}

	content, err := s.chat.ChatJSON(ctx, ai.RecipeSystemPrompt(), ai.RecipeUserPrompt(ingredients, strictMode))
	if err != nil {
		return s.generationFailed(ctx, "Model call failed", err)
	}

	recipe, err := parseRecipe(content)
	if err != nil {
		return s.generationFailed(ctx, "Model returned an unusable recipe", err)
	}

	slog.InfoContext(ctx, "Recipe generated", "client_id", identifier, "recipe", recipe.Name, logger.WithTraceContext(ctx))
	return success(recipe)
}

func (s *Service) generationFailed(ctx context.Context, msg string, err error) Result {
	classified := ClassifyError(err, "")
	slog.ErrorContext(ctx, msg,
		"error", err,
		"error_type", classified.Type,
		"retryable", IsRetryableError(err),
		logger.WithTraceContext(ctx),
	)
	return failure(apperrors.NewRecipeGenerationError(MsgGenerateFailed, "RECIPE_GENERATION_FAILED", err))
}

func parseRecipe(content string) (*Recipe, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("empty model response")
	}

	var r Recipe
	if err := json.Unmarshal([]byte(content), &r); err != nil {
		return nil, fmt.Errorf("decode recipe: %w", err)
	}

	if err := validation.Struct(r); err != nil {
		return nil, fmt.Errorf("invalid recipe: %w", err)
	}

	check := validation.ValidateRecipe(validation.Recipe{
		Name:        r.Name,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
	})
	if !check.IsValid {
		return nil, fmt.Errorf("invalid recipe: %s", strings.Join(check.Issues, "; "))
	}

	return &r, nil
}

func rateLimitMessage(quota int, window time.Duration) string {
	return fmt.Sprintf("Rate limit exceeded: You can only generate %d recipes per %s.", quota, windowLabel(window))
}

func windowLabel(d time.Duration) string {
	switch d {
	case time.Minute:
		return "minute"
	case time.Hour:
		return "hour"
	case 24 * time.Hour:
		return "day"
	default:
		return d.String()
	}
}

// GenerateImage renders the recipe's visual summary and returns the image URL.
func (s *Service) GenerateImage(ctx context.Context, visualSummary string) (string, error) {
	ctx, span := telemetry.Tracer("recipe").Start(ctx, "recipe.image")
	defer span.End()

	prompt := ai.ImagePrompt(visualSummary)
	url, err := s.images.GenerateImage(ctx, prompt)
	if err != nil {
		metrics.ImageGenerationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "Image generation failed",
			"error", err,
			"error_type", ClassifyError(err, "").Type,
			logger.WithTraceContext(ctx),
		)
		return "", apperrors.NewImageGenerationError(MsgImageFailed, "IMAGE_GENERATION_FAILED", err)
	}

	metrics.ImageGenerationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "success")))
	return url, nil
}

// Chat answers a cooking question in the context of a single recipe.
func (s *Service) Chat(ctx context.Context, message string, recipe *Recipe) (string, error) {
	ctx, span := telemetry.Tracer("recipe").Start(ctx, "recipe.chat")
	defer span.End()

	if recipe == nil {
		return "", apperrors.NewValidationError("A recipe is required to chat", "MISSING_RECIPE", "Generate a recipe first.")
	}
	if strings.TrimSpace(message) == "" {
		return "", apperrors.NewValidationError("Message cannot be empty", "EMPTY_MESSAGE", "Type a question about the recipe.")
	}

	messages := []ChatTurn{
		{Role: "system", Content: ai.ChatSystemPrompt(recipe.Name, recipe.Ingredients)},
		{Role: "user", Content: message},
	}

	reply, err := s.chat.ChatText(ctx, messages)
	if err != nil {
		metrics.ChatMessagesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "Chat failed",
			"error", err,
			"error_type", ClassifyError(err, "").Type,
			logger.WithTraceContext(ctx),
		)
		return "", apperrors.NewChatError(MsgChatFailed, "CHAT_FAILED", err)
	}

	metrics.ChatMessagesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "success")))
	return reply, nil
}
