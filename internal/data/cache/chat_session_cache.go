package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mining-chatbot/internal/data/entity"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const chatSessionPrefix = "chat_session:"

type ChatSessionStore interface {
	// Get returns nil, nil when the session is unknown or expired.
	Get(ctx context.Context, id string) (*entity.ChatSession, error)
	Save(ctx context.Context, session *entity.ChatSession) error
}

type chatSessionCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewChatSessionCache(client *redis.Client, ttl time.Duration, log *zap.Logger) ChatSessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return &chatSessionCache{
		client: client,
		ttl:    ttl,
		log:    log.With(zap.String("cache", "chat_session")),
	}
}

func (c *chatSessionCache) Get(ctx context.Context, id string) (*entity.ChatSession, error) {
	raw, err := c.client.Get(ctx, chatSessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		c.log.Error("Failed to get chat session", zap.String("session_id", id), zap.Error(err))
		return nil, fmt.Errorf("get chat session %s: %w", id, err)
	}

	var session entity.ChatSession
	if err := json.Unmarshal(raw, &session); err != nil {
		c.log.Error("Failed to decode chat session", zap.String("session_id", id), zap.Error(err))
		return nil, fmt.Errorf("decode chat session %s: %w", id, err)
	}

	return &session, nil
}

// Save writes the session and restarts its TTL.
func (c *chatSessionCache) Save(ctx context.Context, session *entity.ChatSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode chat session %s: %w", session.ID, err)
	}

	if err := c.client.Set(ctx, chatSessionPrefix+session.ID, raw, c.ttl).Err(); err != nil {
		c.log.Error("Failed to save chat session",
			zap.String("session_id", session.ID),
			zap.Duration("ttl", c.ttl),
			zap.Error(err),
		)
		return fmt.Errorf("save chat session %s: %w", session.ID, err)
	}

	c.log.Debug("Chat session saved",
		zap.String("session_id", session.ID),
		zap.String("stage", string(session.Stage)),
	)
	return nil
}
