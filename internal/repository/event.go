package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
)

type EventRepository interface {
	Append(ctx context.Context, event *entity.GameEvent) error
	ListByGame(ctx context.Context, gameID string) ([]*entity.GameEvent, error)
}

type dbEvent struct {
	client *redis.Client
}

func NewEventRepository(client *redis.Client) EventRepository {
	return &dbEvent{
		client: client,
	}
}

// Append - the event log is append-only; entries are never mutated.
func (that *dbEvent) Append(ctx context.Context, event *entity.GameEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	logKey := "game:" + event.GameID + ":events"
	if err = that.client.RPush(ctx, logKey, eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	return nil
}

func (that *dbEvent) ListByGame(ctx context.Context, gameID string) ([]*entity.GameEvent, error) {
	logKey := "game:" + gameID + ":events"

	raw, err := that.client.LRange(ctx, logKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}

	gameEvents := make([]*entity.GameEvent, 0, len(raw))
	for _, item := range raw {
		var event entity.GameEvent
		if err = json.Unmarshal([]byte(item), &event); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event: %w", err)
		}
		gameEvents = append(gameEvents, &event)
	}

	return gameEvents, nil
}
