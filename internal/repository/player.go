package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/apperror"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
)

type PlayerRepository interface {
	Create(ctx context.Context, player *entity.Player) error
	Update(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	ListByGame(ctx context.Context, gameID string) ([]*entity.Player, error)
	ListAliveByGame(ctx context.Context, gameID string) ([]*entity.Player, error)
}

type dbPlayer struct {
	client *redis.Client
}

func NewPlayerRepository(client *redis.Client) PlayerRepository {
	return &dbPlayer{
		client: client,
	}
}

// Create - stores the player and registers it in the game's roster.
func (that *dbPlayer) Create(ctx context.Context, player *entity.Player) error {
	if err := that.set(ctx, player); err != nil {
		return err
	}

	rosterKey := "game:" + player.GameID + ":players"
	if err := that.client.RPush(ctx, rosterKey, player.ID).Err(); err != nil {
		return fmt.Errorf("failed to register player in roster: %w", err)
	}

	return nil
}

func (that *dbPlayer) Update(ctx context.Context, player *entity.Player) error {
	return that.set(ctx, player)
}

func (that *dbPlayer) set(ctx context.Context, player *entity.Player) error {
	playerJSON, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("could not marshal player: %w", err)
	}

	playerKey := "player:" + player.ID
	if err = that.client.Set(ctx, playerKey, playerJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set player: %w", err)
	}

	return nil
}

func (that *dbPlayer) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	playerKey := "player:" + id

	response, err := that.client.Get(ctx, playerKey).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.Player{}, apperror.ErrPlayerNotFound
	}

	if err != nil {
		return &entity.Player{}, fmt.Errorf("failed to get player by id: %w", err)
	}

	var existingPlayer entity.Player
	if err = json.Unmarshal([]byte(response), &existingPlayer); err != nil {
		return &entity.Player{}, fmt.Errorf("failed to unmarshal player: %w", err)
	}

	return &existingPlayer, nil
}

// ListByGame - all players of a game ordered by seating position.
func (that *dbPlayer) ListByGame(ctx context.Context, gameID string) ([]*entity.Player, error) {
	rosterKey := "game:" + gameID + ":players"

	ids, err := that.client.LRange(ctx, rosterKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read game roster: %w", err)
	}

	players := make([]*entity.Player, 0, len(ids))
	for _, id := range ids {
		player, err := that.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}

	sort.Slice(players, func(i, j int) bool {
		return players[i].Position < players[j].Position
	})

	return players, nil
}

// ListAliveByGame - living players of a game ordered by seating position.
func (that *dbPlayer) ListAliveByGame(ctx context.Context, gameID string) ([]*entity.Player, error) {
	players, err := that.ListByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	alive := make([]*entity.Player, 0, len(players))
	for _, player := range players {
		if player.IsAlive {
			alive = append(alive, player)
		}
	}

	return alive, nil
}
