package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateWinner(t *testing.T) {
	t.Run("Villagers win when no Mafia remain", func(t *testing.T) {
		// Given: zero Mafia and five Villagers alive
		result := EvaluateWinner(0, 5)

		// Then: Villagers should win
		assert.Equal(t, WinnerVillagers, result.Winner)
		assert.NotEmpty(t, result.Reason)
	})

	t.Run("Mafia win when they equal the Villagers", func(t *testing.T) {
		// Given: two Mafia and two Villagers alive
		result := EvaluateWinner(2, 2)

		// Then: Mafia should win
		assert.Equal(t, WinnerMafia, result.Winner)
	})

	t.Run("Mafia win when they outnumber the Villagers", func(t *testing.T) {
		// Given: three Mafia and two Villagers alive
		result := EvaluateWinner(3, 2)

		// Then: Mafia should win
		assert.Equal(t, WinnerMafia, result.Winner)
	})

	t.Run("No winner while Villagers outnumber Mafia", func(t *testing.T) {
		// Given: two Mafia and six Villagers alive
		result := EvaluateWinner(2, 6)

		// Then: the game should continue
		assert.Empty(t, result.Winner)
		assert.Equal(t, 2, result.MafiaAlive)
		assert.Equal(t, 6, result.VillagersAlive)
	})

	t.Run("Exact boundary one Mafia one Villager goes to Mafia", func(t *testing.T) {
		// Given: one Mafia and one Villager alive
		result := EvaluateWinner(1, 1)

		// Then: Mafia should win on parity
		assert.Equal(t, WinnerMafia, result.Winner)
	})
}

func TestForcedWinner(t *testing.T) {
	t.Run("Mafia majority wins a forced end", func(t *testing.T) {
		// Given: three Mafia and two Villagers at the round cap
		result := ForcedWinner(3, 2)

		// Then: Mafia should win
		assert.Equal(t, WinnerMafia, result.Winner)
	})

	t.Run("Villager majority wins a forced end", func(t *testing.T) {
		// Given: two Mafia and five Villagers at the round cap
		result := ForcedWinner(2, 5)

		// Then: Villagers should win
		assert.Equal(t, WinnerVillagers, result.Winner)
	})

	t.Run("Tie goes to the Villagers", func(t *testing.T) {
		// Given: equal living factions at the round cap
		result := ForcedWinner(2, 2)

		// Then: Villagers should win the tie
		assert.Equal(t, WinnerVillagers, result.Winner)
	})
}
