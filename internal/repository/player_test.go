package repository

import (
	"testing"

	"github.com/rocketscienceinc/mafia-arena-backend/internal/apperror"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
	"github.com/rocketscienceinc/mafia-arena-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerRepository_CreateAndGet(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a Mafia player in seat 0
	player := &entity.Player{
		ID:          "p1",
		GameID:      "g1",
		Name:        "Agent-A",
		Role:        entity.RoleMafia,
		Personality: "analytical",
		IsAlive:     true,
		Position:    0,
	}

	// When: the player is created and fetched back
	err := playerRepo.Create(ctx, player)
	require.NoError(t, err)

	retrieved, err := playerRepo.GetByID(ctx, player.ID)

	// Then: the stored record round-trips intact
	require.NoError(t, err)
	assert.Equal(t, player, retrieved)
}

func TestPlayerRepository_GetByID_NotFound(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// When: GetByID is called with non-existent ID
	_, err := playerRepo.GetByID(ctx, "9999999")

	// Then: an ErrPlayerNotFound error should be returned
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrPlayerNotFound)
}

func TestPlayerRepository_ListByGame(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: three players created out of position order
	for _, player := range []*entity.Player{
		{ID: "p3", GameID: "g1", Name: "Agent-C", Role: entity.RoleVillager, IsAlive: true, Position: 2},
		{ID: "p1", GameID: "g1", Name: "Agent-A", Role: entity.RoleMafia, IsAlive: true, Position: 0},
		{ID: "p2", GameID: "g1", Name: "Agent-B", Role: entity.RoleVillager, IsAlive: true, Position: 1},
	} {
		require.NoError(t, playerRepo.Create(ctx, player))
	}

	// When: listing the game roster
	players, err := playerRepo.ListByGame(ctx, "g1")

	// Then: the roster comes back ordered by seating position
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, "Agent-A", players[0].Name)
	assert.Equal(t, "Agent-B", players[1].Name)
	assert.Equal(t, "Agent-C", players[2].Name)
}

func TestPlayerRepository_ListAliveByGame(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: one living and one eliminated player
	alivePlayer := &entity.Player{ID: "p1", GameID: "g1", Name: "Agent-A", Role: entity.RoleVillager, IsAlive: true, Position: 0}
	deadPlayer := &entity.Player{ID: "p2", GameID: "g1", Name: "Agent-B", Role: entity.RoleVillager, IsAlive: true, Position: 1}
	require.NoError(t, playerRepo.Create(ctx, alivePlayer))
	require.NoError(t, playerRepo.Create(ctx, deadPlayer))

	deadPlayer.Eliminate(entity.EliminationNightKill, 1)
	require.NoError(t, playerRepo.Update(ctx, deadPlayer))

	// When: listing living players
	players, err := playerRepo.ListAliveByGame(ctx, "g1")

	// Then: only the living player remains
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Agent-A", players[0].Name)
}
