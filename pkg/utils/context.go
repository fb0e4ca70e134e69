package utils

import (
	"context"
)

type contextKey string

const (
	ChatSessionKey contextKey = "chat_session_id"
)

// GetChatSessionFromContext returns the chat session id set by the
// ChatSession middleware.
func GetChatSessionFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(ChatSessionKey)
	if val == nil {
		return "", false
	}

	id, ok := val.(string)
	return id, ok && id != ""
}

func SetChatSessionContext(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ChatSessionKey, sessionID)
}
