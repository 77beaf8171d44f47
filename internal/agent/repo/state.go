package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"

	"github.com/inflx/social-to-lead/internal/agent/model"
	"github.com/inflx/social-to-lead/internal/core/errx"
	logx "github.com/inflx/social-to-lead/pkg/logger"
)

// Stored message role tags. The wire format predates this service and is
// shared with other consumers of the same keys, so the tags stay as-is.
const (
	storedTypeHuman = "human"
	storedTypeAI    = "ai"
)

type storedMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type storedState struct {
	Messages     []storedMessage   `json:"messages"`
	UserInfo     map[string]string `json:"user_info"`
	Intents      string            `json:"intents"`
	LeadCaptured bool              `json:"lead_captured"`
}

// RedisStateRepository persists one JSON blob per user under
// user_state:<user_id>, refreshed with the configured TTL on every save.
type RedisStateRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisStateRepository(rdb redis.Cmdable, ttl time.Duration) *RedisStateRepository {
	return &RedisStateRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisStateRepository) stateKey(userID string) string {
	return fmt.Sprintf("user_state:%s", userID)
}

func (r *RedisStateRepository) Load(ctx context.Context, userID string) (*model.ConversationState, error) {
	key := r.stateKey(userID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.NewConversationState(), nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load user state from redis")
		return nil, errx.WrapRedis(err)
	}

	var stored storedState
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("failed to unmarshal user state")
		return nil, fmt.Errorf("unmarshal user state: %w", err)
	}

	state := model.NewConversationState()
	for _, msg := range stored.Messages {
		switch msg.Type {
		case storedTypeHuman:
			state.Messages = append(state.Messages, schema.UserMessage(msg.Content))
		case storedTypeAI:
			state.Messages = append(state.Messages, schema.AssistantMessage(msg.Content, nil))
		default:
			logx.Warn().Str("user_id", userID).Str("type", msg.Type).Msg("skipping stored message with unknown type")
		}
	}
	if stored.UserInfo != nil {
		state.UserInfo = stored.UserInfo
	}
	state.Intent = model.Intent(stored.Intents)
	state.LeadCaptured = stored.LeadCaptured

	return state, nil
}

func (r *RedisStateRepository) Save(ctx context.Context, userID string, state *model.ConversationState) error {
	stored := storedState{
		Messages:     make([]storedMessage, 0, len(state.Messages)),
		UserInfo:     state.UserInfo,
		Intents:      string(state.Intent),
		LeadCaptured: state.LeadCaptured,
	}
	if stored.UserInfo == nil {
		stored.UserInfo = map[string]string{}
	}
	for _, msg := range state.Messages {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.User:
			stored.Messages = append(stored.Messages, storedMessage{Type: storedTypeHuman, Content: msg.Content})
		case schema.Assistant:
			stored.Messages = append(stored.Messages, storedMessage{Type: storedTypeAI, Content: msg.Content})
		}
	}

	b, err := json.Marshal(stored)
	if err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("failed to marshal user state")
		return fmt.Errorf("marshal user state: %w", err)
	}

	key := r.stateKey(userID)
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save user state to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisStateRepository) Clear(ctx context.Context, userID string) error {
	key := r.stateKey(userID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to clear user state from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.StateRepository = (*RedisStateRepository)(nil)
