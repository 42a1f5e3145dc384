package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/config"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/engine"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
)

// PlayerView - spectator-facing projection of a player. Role is withheld
// while the game is running unless transparency mode is on.
type PlayerView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Personality string `json:"personality"`
	IsAlive     bool   `json:"is_alive"`
	Position    int    `json:"position"`
	Role        string `json:"role,omitempty"`
}

// GameView - spectator-facing projection of a game and its seats.
type GameView struct {
	ID             string       `json:"id"`
	Status         string       `json:"status"`
	CurrentPhase   string       `json:"current_phase"`
	RoundNumber    int          `json:"round_number"`
	PhaseStartTime time.Time    `json:"phase_start_time"`
	Winner         string       `json:"winner,omitempty"`
	WinReason      string       `json:"win_reason,omitempty"`
	Players        []PlayerView `json:"players"`
}

// GameManager - lobby-side operations: creating games, dealing roles and
// launching the orchestration task.
type GameManager struct {
	logger       *slog.Logger
	games        gameRepo
	players      playerRepo
	orchestrator *Orchestrator
	conf         config.Game
	rng          *rand.Rand
}

func NewGameManager(logger *slog.Logger, games gameRepo, players playerRepo, orchestrator *Orchestrator, conf config.Game, rng *rand.Rand) *GameManager {
	return &GameManager{
		logger:       logger.With("component", "game_manager"),
		games:        games,
		players:      players,
		orchestrator: orchestrator,
		conf:         conf,
		rng:          rng,
	}
}

// CreateGame - creates a lobby game with roles already dealt. Roles are never
// re-dealt after this point.
func (that *GameManager) CreateGame(ctx context.Context, playerCount int) (*GameView, error) {
	personalities := that.conf.Personalities
	if len(personalities) == 0 {
		personalities = engine.DefaultPersonalities
	}

	assignments, err := engine.AssignRoles(playerCount, personalities, that.rng)
	if err != nil {
		return nil, err
	}

	game := entity.NewGame(uuid.NewString(), playerCount)

	if err = that.games.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to persist game: %w", err)
	}

	for _, assignment := range assignments {
		player := &entity.Player{
			ID:          uuid.NewString(),
			GameID:      game.ID,
			Name:        assignment.Name,
			Role:        assignment.Role,
			Personality: assignment.Personality,
			IsAlive:     true,
			Position:    assignment.Position,
		}

		if err = that.players.Create(ctx, player); err != nil {
			return nil, fmt.Errorf("failed to persist player: %w", err)
		}
	}

	that.logger.Info("game created",
		"game_id", game.ID, "player_count", playerCount, "mafia_count", engine.MafiaCountFor(playerCount))

	return that.view(ctx, game)
}

// StartGame - launches the orchestration task for a lobby game. The status
// guard makes a second start attempt fail instead of spawning a second loop.
func (that *GameManager) StartGame(ctx context.Context, gameID string) error {
	if err := that.orchestrator.ValidateDeps(); err != nil {
		return err
	}

	game, err := that.games.GetByID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = game.ConfirmLobbyState(); err != nil {
		return err
	}

	that.logger.Info("starting game", "game_id", gameID)

	// the loop outlives the start request
	go func() {
		if _, err := that.orchestrator.Run(context.Background(), gameID); err != nil {
			that.logger.Error("game loop ended with error", "game_id", gameID, "error", err)
		}
	}()

	return nil
}

// GameState - read-side projection for spectators.
func (that *GameManager) GameState(ctx context.Context, gameID string) (*GameView, error) {
	game, err := that.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return that.view(ctx, game)
}

func (that *GameManager) view(ctx context.Context, game *entity.Game) (*GameView, error) {
	players, err := that.players.ListByGame(ctx, game.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	revealRoles := game.IsOver() || that.conf.Transparency

	playerViews := make([]PlayerView, 0, len(players))
	for _, player := range players {
		view := PlayerView{
			ID:          player.ID,
			Name:        player.Name,
			Personality: player.Personality,
			IsAlive:     player.IsAlive,
			Position:    player.Position,
		}
		if revealRoles {
			view.Role = player.Role
		}
		playerViews = append(playerViews, view)
	}

	return &GameView{
		ID:             game.ID,
		Status:         game.Status,
		CurrentPhase:   game.CurrentPhase,
		RoundNumber:    game.RoundNumber,
		PhaseStartTime: game.PhaseStartTime,
		Winner:         game.Winner,
		WinReason:      game.WinReason,
		Players:        playerViews,
	}, nil
}
