package recipe

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/socialchef/chefgpt/internal/errors"
)

// ProviderError represents a classified error from a model provider
type ProviderError struct {
	Type     string // "rate_limit", "credit_exhausted", "timeout", "canceled", "server_error", "client_error", "unknown"
	Message  string
	Provider string
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return e.Message
}

var classifiers = []struct {
	kind    string
	markers []string
}{
	{"rate_limit", []string{"status 429", "http 429", "rate limit", "too many requests"}},
	{"credit_exhausted", []string{"status 402", "http 402", "insufficient credit", "insufficient_quota", "credit exhausted", "billing"}},
	{"server_error", []string{"status 5", "http 5", "server error", "internal error"}},
	{"client_error", []string{"status 4", "http 4", "bad request", "unauthorized", "forbidden", "invalid_api_key"}},
}

// ClassifyError maps a provider failure onto a coarse type used for logs and metrics
func ClassifyError(err error, provider string) *ProviderError {
	if err == nil {
		return nil
	}

	msg := err.Error()
	classify := func(kind string) *ProviderError {
		return &ProviderError{Type: kind, Message: msg, Provider: provider}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return classify("timeout")
	case errors.Is(err, context.Canceled):
		return classify("canceled")
	}

	lower := strings.ToLower(msg)
	// Quota markers win over the AppError status.
	for _, c := range classifiers[:2] {
		if containsAny(lower, c.markers) {
			return classify(c.kind)
		}
	}

	if appErr, ok := apperrors.As(err); ok {
		switch {
		case appErr.StatusCode >= 500:
			return classify("server_error")
		case appErr.StatusCode >= 400:
			return classify("client_error")
		}
	}

	for _, c := range classifiers[2:] {
		if containsAny(lower, c.markers) {
			return classify(c.kind)
		}
	}

	return classify("unknown")
}

// IsRetryableError reports whether a later attempt by the user could succeed
func IsRetryableError(err error) bool {
	providerErr := ClassifyError(err, "")
	if providerErr == nil {
		return false
	}

	switch providerErr.Type {
	case "rate_limit", "credit_exhausted", "server_error", "timeout":
		return true
	default:
		return false
	}
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
