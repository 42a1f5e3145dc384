package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
)

const subscriberBuffer = 64

// Event - one orchestration event as delivered to stream subscribers.
type Event struct {
	GameID    string         `json:"game_id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type eventStore interface {
	Append(ctx context.Context, event *entity.GameEvent) error
}

// Emitter - in-process pub/sub for game events. Emission is fire-and-forget:
// a slow subscriber is skipped, never blocks the orchestrator. Every event is
// also appended to the event log for replay.
type Emitter struct {
	logger *slog.Logger
	store  eventStore

	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

// NewEmitter - store may be nil when no replay log is needed (tests).
func NewEmitter(logger *slog.Logger, store eventStore) *Emitter {
	return &Emitter{
		logger: logger.With("component", "events"),
		store:  store,
		subs:   make(map[string]map[chan Event]struct{}),
	}
}

// Emit - publishes an event to all subscribers of the game and appends it to
// the event log. Log failures are reported but never abort the game.
func (that *Emitter) Emit(ctx context.Context, gameID, eventType string, payload map[string]any) {
	event := Event{
		GameID:    gameID,
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	if that.store != nil {
		record := &entity.GameEvent{
			ID:        uuid.NewString(),
			GameID:    gameID,
			Type:      eventType,
			Payload:   payload,
			Timestamp: event.Timestamp,
		}
		if err := that.store.Append(ctx, record); err != nil {
			that.logger.Error("failed to append game event", "game_id", gameID, "type", eventType, "error", err)
		}
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for sub := range that.subs[gameID] {
		select {
		case sub <- event:
		default:
			that.logger.Warn("dropping event for slow subscriber", "game_id", gameID, "type", eventType)
		}
	}
}

// Subscribe - returns a buffered event channel for one game and a cancel
// function that must be called when the consumer goes away.
func (that *Emitter) Subscribe(gameID string) (<-chan Event, func()) {
	sub := make(chan Event, subscriberBuffer)

	that.mu.Lock()
	if that.subs[gameID] == nil {
		that.subs[gameID] = make(map[chan Event]struct{})
	}
	that.subs[gameID][sub] = struct{}{}
	that.mu.Unlock()

	cancel := func() {
		that.mu.Lock()
		defer that.mu.Unlock()

		if set, ok := that.subs[gameID]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(that.subs, gameID)
			}
		}
	}

	return sub, cancel
}

// SubscriberCount - number of active subscribers for a game.
func (that *Emitter) SubscriberCount(gameID string) int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.subs[gameID])
}
