package engine

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlayers(positions ...int) []*entity.Player {
	players := make([]*entity.Player, 0, len(positions))
	for _, position := range positions {
		players = append(players, &entity.Player{
			ID:       SeatName(position),
			Name:     SeatName(position),
			Position: position,
			IsAlive:  true,
		})
	}

	return players
}

func TestTurnSchedule(t *testing.T) {
	t.Run("Turns proceed round robin by seating position", func(t *testing.T) {
		// Given: players passed in shuffled position order
		schedule := NewTurnSchedule(testPlayers(2, 0, 1), 2, 0)

		// When: draining the schedule
		var order []string
		for {
			player := schedule.Next()
			if player == nil {
				break
			}
			order = append(order, player.Name)
		}

		// Then: each of the two rounds visits the seats in position order
		require.Equal(t, []string{
			"Agent-A", "Agent-B", "Agent-C",
			"Agent-A", "Agent-B", "Agent-C",
		}, order)
	})

	t.Run("Round counter advances after a full pass", func(t *testing.T) {
		schedule := NewTurnSchedule(testPlayers(0, 1), 2, 0)

		assert.Equal(t, 0, schedule.Round())
		schedule.Next()
		schedule.Next()
		assert.Equal(t, 1, schedule.Round())
	})

	t.Run("Schedule stops at the deadline", func(t *testing.T) {
		// Given: a one-second schedule driven by an injected clock
		schedule := NewTurnSchedule(testPlayers(0, 1), 10, time.Second)

		clock := time.Unix(1000, 0)
		schedule.now = func() time.Time { return clock }

		// When: the first turn opens the window and the clock jumps past it
		require.NotNil(t, schedule.Next())
		clock = clock.Add(2 * time.Second)

		// Then: no further turns should be produced, because the deadline is
		// measured against the same injected clock
		assert.False(t, schedule.ShouldContinue())
		assert.Nil(t, schedule.Next())
	})

	t.Run("Empty player list produces no turns", func(t *testing.T) {
		schedule := NewTurnSchedule(nil, 3, 0)

		assert.False(t, schedule.ShouldContinue())
		assert.Nil(t, schedule.Next())
	})
}
