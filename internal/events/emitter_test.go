package events

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type recordingStore struct {
	appended []*entity.GameEvent
}

func (that *recordingStore) Append(_ context.Context, event *entity.GameEvent) error {
	that.appended = append(that.appended, event)
	return nil
}

func TestEmitter_Emit(t *testing.T) {
	t.Run("Subscribers receive events in emission order", func(t *testing.T) {
		// Given: a subscriber on one game
		emitter := NewEmitter(testLogger(), nil)
		sub, cancel := emitter.Subscribe("g1")
		defer cancel()

		// When: emitting three events
		emitter.Emit(context.Background(), "g1", entity.EventPhaseChange, map[string]any{"to": "NIGHT"})
		emitter.Emit(context.Background(), "g1", entity.EventTurnStart, nil)
		emitter.Emit(context.Background(), "g1", entity.EventTurnEnd, nil)

		// Then: the subscriber sees them in order
		assert.Equal(t, entity.EventPhaseChange, (<-sub).Type)
		assert.Equal(t, entity.EventTurnStart, (<-sub).Type)
		assert.Equal(t, entity.EventTurnEnd, (<-sub).Type)
	})

	t.Run("Events are scoped to their game", func(t *testing.T) {
		emitter := NewEmitter(testLogger(), nil)
		sub, cancel := emitter.Subscribe("g1")
		defer cancel()

		emitter.Emit(context.Background(), "g2", entity.EventGameOver, nil)

		select {
		case event := <-sub:
			t.Fatalf("unexpected event for other game: %v", event)
		default:
		}
	})

	t.Run("Every emitted event lands in the event log", func(t *testing.T) {
		// Given: an emitter backed by a store
		store := &recordingStore{}
		emitter := NewEmitter(testLogger(), store)

		// When: emitting without any subscribers
		emitter.Emit(context.Background(), "g1", entity.EventRoundStart, map[string]any{"round": 1})

		// Then: the event is appended regardless
		require.Len(t, store.appended, 1)
		assert.Equal(t, entity.EventRoundStart, store.appended[0].Type)
		assert.Equal(t, "g1", store.appended[0].GameID)
	})

	t.Run("A slow subscriber is skipped not blocked on", func(t *testing.T) {
		// Given: a subscriber that never drains its channel
		emitter := NewEmitter(testLogger(), nil)
		_, cancel := emitter.Subscribe("g1")
		defer cancel()

		// When: emitting more events than the channel buffers
		for i := 0; i < subscriberBuffer+10; i++ {
			emitter.Emit(context.Background(), "g1", entity.EventMessage, nil)
		}

		// Then: Emit returned every time; reaching this line is the assertion
	})
}

func TestEmitter_Subscribe(t *testing.T) {
	t.Run("Cancel removes the subscriber", func(t *testing.T) {
		emitter := NewEmitter(testLogger(), nil)

		_, cancel := emitter.Subscribe("g1")
		require.Equal(t, 1, emitter.SubscriberCount("g1"))

		cancel()
		assert.Zero(t, emitter.SubscriberCount("g1"))
	})

	t.Run("Multiple subscribers each get every event", func(t *testing.T) {
		emitter := NewEmitter(testLogger(), nil)

		first, cancelFirst := emitter.Subscribe("g1")
		defer cancelFirst()
		second, cancelSecond := emitter.Subscribe("g1")
		defer cancelSecond()

		emitter.Emit(context.Background(), "g1", entity.EventGameOver, nil)

		assert.Equal(t, entity.EventGameOver, (<-first).Type)
		assert.Equal(t, entity.EventGameOver, (<-second).Type)
	})
}
