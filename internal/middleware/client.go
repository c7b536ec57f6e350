package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const ClientIDKey contextKey = "clientID"

// UnknownClient is used when a request carries no forwarding header.
const UnknownClient = "unknown"

// ClientIdentifier returns the first hop of X-Forwarded-For, or UnknownClient.
func ClientIdentifier(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		return UnknownClient
	}
	first, _, _ := strings.Cut(xff, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return UnknownClient
	}
	return first
}

// ClientID stores the caller's identifier on the request context
func ClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithClientID(r.Context(), ClientIdentifier(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ClientIDKey, id)
}

// GetClientID extracts the client identifier from request context
func GetClientID(ctx context.Context) string {
	id, ok := ctx.Value(ClientIDKey).(string)
	if !ok || id == "" {
		return UnknownClient
	}
	return id
}
