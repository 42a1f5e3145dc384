package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.DiscussionMessage) error
	ListByGame(ctx context.Context, gameID string) ([]*entity.DiscussionMessage, error)
	ListByRound(ctx context.Context, gameID string, round int) ([]*entity.DiscussionMessage, error)
}

type NightMessageRepository interface {
	Create(ctx context.Context, message *entity.NightMessage) error
	ListByRound(ctx context.Context, gameID string, round int) ([]*entity.NightMessage, error)
}

type dbMessage struct {
	client *redis.Client
}

func NewMessageRepository(client *redis.Client) MessageRepository {
	return &dbMessage{
		client: client,
	}
}

// Create - appends the message to the game's public feed. Append order
// matches timestamp order, which keeps round/timestamp reads trivial.
func (that *dbMessage) Create(ctx context.Context, message *entity.DiscussionMessage) error {
	messageJSON, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("could not marshal message: %w", err)
	}

	feedKey := "game:" + message.GameID + ":messages"
	if err = that.client.RPush(ctx, feedKey, messageJSON).Err(); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	return nil
}

func (that *dbMessage) ListByGame(ctx context.Context, gameID string) ([]*entity.DiscussionMessage, error) {
	feedKey := "game:" + gameID + ":messages"

	raw, err := that.client.LRange(ctx, feedKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read message feed: %w", err)
	}

	messages := make([]*entity.DiscussionMessage, 0, len(raw))
	for _, item := range raw {
		var message entity.DiscussionMessage
		if err = json.Unmarshal([]byte(item), &message); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		messages = append(messages, &message)
	}

	return messages, nil
}

func (that *dbMessage) ListByRound(ctx context.Context, gameID string, round int) ([]*entity.DiscussionMessage, error) {
	messages, err := that.ListByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	filtered := make([]*entity.DiscussionMessage, 0, len(messages))
	for _, message := range messages {
		if message.RoundNumber == round {
			filtered = append(filtered, message)
		}
	}

	return filtered, nil
}

type dbNightMessage struct {
	client *redis.Client
}

func NewNightMessageRepository(client *redis.Client) NightMessageRepository {
	return &dbNightMessage{
		client: client,
	}
}

// Create - appends to the game's private night feed, kept apart from the
// public feed so it can never leak through discussion reads.
func (that *dbNightMessage) Create(ctx context.Context, message *entity.NightMessage) error {
	messageJSON, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("could not marshal night message: %w", err)
	}

	feedKey := "game:" + message.GameID + ":night"
	if err = that.client.RPush(ctx, feedKey, messageJSON).Err(); err != nil {
		return fmt.Errorf("failed to append night message: %w", err)
	}

	return nil
}

func (that *dbNightMessage) ListByRound(ctx context.Context, gameID string, round int) ([]*entity.NightMessage, error) {
	feedKey := "game:" + gameID + ":night"

	raw, err := that.client.LRange(ctx, feedKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read night feed: %w", err)
	}

	messages := make([]*entity.NightMessage, 0, len(raw))
	for _, item := range raw {
		var message entity.NightMessage
		if err = json.Unmarshal([]byte(item), &message); err != nil {
			return nil, fmt.Errorf("failed to unmarshal night message: %w", err)
		}
		if message.RoundNumber == round {
			messages = append(messages, &message)
		}
	}

	return messages, nil
}
