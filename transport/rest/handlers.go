package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/mafia-arena-backend/internal/apperror"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/engine"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/events"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/usecase"
)

type Handlers interface {
	CreateGame(w http.ResponseWriter, r *http.Request)
	StartGame(w http.ResponseWriter, r *http.Request)
	GetGame(w http.ResponseWriter, r *http.Request)
	StreamEvents(w http.ResponseWriter, r *http.Request)
}

type gameService interface {
	CreateGame(ctx context.Context, playerCount int) (*usecase.GameView, error)
	StartGame(ctx context.Context, gameID string) error
	GameState(ctx context.Context, gameID string) (*usecase.GameView, error)
}

type eventStream interface {
	Subscribe(gameID string) (<-chan events.Event, func())
}

type eventHistory interface {
	ListByGame(ctx context.Context, gameID string) ([]*entity.GameEvent, error)
}

type handlers struct {
	logger  *slog.Logger
	games   gameService
	stream  eventStream
	history eventHistory
}

func NewHandlers(logger *slog.Logger, games gameService, stream eventStream, history eventHistory) Handlers {
	return &handlers{
		logger:  logger.With("component", "rest"),
		games:   games,
		stream:  stream,
		history: history,
	}
}

type createGameRequest struct {
	PlayerCount int `json:"player_count"`
}

func (that *handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	view, err := that.games.CreateGame(r.Context(), req.PlayerCount)
	if err != nil {
		if errors.Is(err, engine.ErrPlayerCountOutOfRange) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		that.logger.Error("failed to create game", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, http.StatusCreated, view)
}

func (that *handlers) StartGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")

	if err := that.games.StartGame(r.Context(), gameID); err != nil {
		switch {
		case errors.Is(err, apperror.ErrGameNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, apperror.ErrGameAlreadyStarted), errors.Is(err, apperror.ErrGameFinished):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			that.logger.Error("failed to start game", "game_id", gameID, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	that.writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (that *handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")

	view, err := that.games.GameState(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, apperror.ErrGameNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		that.logger.Error("failed to get game", "game_id", gameID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
