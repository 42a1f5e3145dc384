package engine

import (
	"math/rand"
	"testing"

	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMafiaCountFor(t *testing.T) {
	t.Run("Eight players get two Mafia", func(t *testing.T) {
		assert.Equal(t, 2, MafiaCountFor(8))
	})

	t.Run("Nine to eleven players get three Mafia", func(t *testing.T) {
		assert.Equal(t, 3, MafiaCountFor(9))
		assert.Equal(t, 3, MafiaCountFor(10))
		assert.Equal(t, 3, MafiaCountFor(11))
	})

	t.Run("Twelve players get four Mafia", func(t *testing.T) {
		assert.Equal(t, 4, MafiaCountFor(12))
	})
}

func TestAssignRoles(t *testing.T) {
	t.Run("Deals the exact Mafia and Villager split", func(t *testing.T) {
		// Given: ten seats and a fixed random source
		rng := rand.New(rand.NewSource(42))

		// When: assigning roles
		assignments, err := AssignRoles(10, DefaultPersonalities, rng)
		require.NoError(t, err)
		require.Len(t, assignments, 10)

		// Then: exactly three Mafia and seven Villagers should be dealt
		mafia := 0
		for _, assignment := range assignments {
			if assignment.Role == entity.RoleMafia {
				mafia++
			}
		}
		assert.Equal(t, 3, mafia)
	})

	t.Run("Positions and names stay in creation order", func(t *testing.T) {
		// Given: eight seats
		rng := rand.New(rand.NewSource(1))

		// When: assigning roles
		assignments, err := AssignRoles(8, DefaultPersonalities, rng)
		require.NoError(t, err)

		// Then: every seat keeps its deterministic position and name
		for i, assignment := range assignments {
			assert.Equal(t, i, assignment.Position)
			assert.Equal(t, SeatName(i), assignment.Name)
			assert.NotEmpty(t, assignment.Personality)
		}
	})

	t.Run("Same seed deals the same roles", func(t *testing.T) {
		// Given: two identically seeded random sources
		first, err := AssignRoles(12, DefaultPersonalities, rand.New(rand.NewSource(7)))
		require.NoError(t, err)

		second, err := AssignRoles(12, DefaultPersonalities, rand.New(rand.NewSource(7)))
		require.NoError(t, err)

		// Then: the deals should be identical
		assert.Equal(t, first, second)
	})

	t.Run("Rejects player counts outside the supported range", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))

		_, err := AssignRoles(7, DefaultPersonalities, rng)
		assert.ErrorIs(t, err, ErrPlayerCountOutOfRange)

		_, err = AssignRoles(13, DefaultPersonalities, rng)
		assert.ErrorIs(t, err, ErrPlayerCountOutOfRange)
	})

	t.Run("Rejects an empty personality pool", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))

		_, err := AssignRoles(10, nil, rng)
		assert.ErrorIs(t, err, ErrEmptyPersonalities)
	})
}

func TestSeatName(t *testing.T) {
	assert.Equal(t, "Agent-A", SeatName(0))
	assert.Equal(t, "Agent-L", SeatName(11))
}
