package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	apperrors "github.com/socialchef/chefgpt/internal/errors"
	"github.com/socialchef/chefgpt/internal/middleware"
	"github.com/socialchef/chefgpt/internal/sentry"
	"github.com/socialchef/chefgpt/internal/services/recipe"
	"github.com/socialchef/chefgpt/internal/validation"
)

const maxBodyBytes = 64 << 10

// RecipeService is the orchestrator behind the HTTP handlers.
type RecipeService interface {
	GenerateRecipe(ctx context.Context, identifier string, ingredients []string, strictMode bool) recipe.Result
	GenerateImage(ctx context.Context, visualSummary string) (string, error)
	Chat(ctx context.Context, message string, r *recipe.Recipe) (string, error)
}

type Server struct {
	recipes RecipeService
}

func NewServer(recipes RecipeService) *Server {
	return &Server{recipes: recipes}
}

// Routes mounts the recipe API on r.
func (s *Server) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.ClientID)
		r.Post("/api/recipes", s.HandleGenerateRecipe)
		r.Post("/api/images", s.HandleGenerateImage)
		r.Post("/api/chat", s.HandleChat)
	})
}

// IngredientList accepts either a JSON array or a comma separated string.
type IngredientList []string

func (l *IngredientList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return errors.New("ingredients must be a list or a comma separated string")
	}
	*l = strings.Split(joined, ",")
	return nil
}

type GenerateRecipeRequest struct {
	Ingredients IngredientList `json:"ingredients" validate:"required,max=50,dive,max=200"`
	StrictMode  bool           `json:"strict_mode"`
}

// HandleGenerateRecipe always answers with a recipe.Result body, including
// for requests that fail to decode or validate.
func (s *Server) HandleGenerateRecipe(w http.ResponseWriter, r *http.Request) {
	requestID := chimiddleware.GetReqID(r.Context())
	if requestID != "" {
		w.Header().Set("X-Request-ID", requestID)
	}

	var req GenerateRecipeRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeResult(w, r, failedResult(err))
		return
	}

	clientID := middleware.GetClientID(r.Context())
	slog.InfoContext(r.Context(), "Generating recipe",
		"request_id", requestID,
		"client_id", clientID,
		"ingredients", len(req.Ingredients),
		"strict_mode", req.StrictMode,
	)

	// Ingredients are sanitized once, by the service.
	res := s.recipes.GenerateRecipe(r.Context(), clientID, req.Ingredients, req.StrictMode)
	writeResult(w, r, res)
}

func failedResult(err error) recipe.Result {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewInternalError(recipe.MsgGenerateFailed, "INTERNAL", err)
	}
	return recipe.Result{Error: appErr.Message, Err: appErr}
}

func writeResult(w http.ResponseWriter, r *http.Request, res recipe.Result) {
	status := http.StatusOK
	switch {
	case res.Success:
	case res.Err == nil:
		status = http.StatusInternalServerError
	default:
		status = res.Err.StatusCode
		if status >= http.StatusInternalServerError {
			sentry.CaptureError(r.Context(), res.Err)
		}
	}
	writeJSON(w, status, res)
}

type GenerateImageRequest struct {
	VisualSummary string `json:"visual_summary" validate:"max=500"`
}

type GenerateImageResponse struct {
	URL string `json:"url"`
}

func (s *Server) HandleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var req GenerateImageRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	url, err := s.recipes.GenerateImage(r.Context(), validation.SanitizeText(req.VisualSummary))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, GenerateImageResponse{URL: url})
}

type ChatRequest struct {
	Message string         `json:"message" validate:"required,max=2000"`
	Recipe  *recipe.Recipe `json:"recipe" validate:"required"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	message := validation.SanitizeText(req.Message)
	if message == "" {
		writeError(w, r, apperrors.NewValidationError("Message cannot be empty", "EMPTY_MESSAGE", "Type a question about the recipe."))
		return
	}

	reply, err := s.recipes.Chat(r.Context(), message, req.Recipe)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidationError("Invalid request body", "INVALID_BODY", err.Error())
	}
	return validation.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewInternalError("Internal server error", "INTERNAL", err)
	}
	if appErr.StatusCode >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		sentry.CaptureError(r.Context(), err)
	}
	writeJSON(w, appErr.StatusCode, map[string]string{"error": appErr.Message})
}
