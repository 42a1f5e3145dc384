package usecase

import (
	"context"

	"github.com/rocketscienceinc/mafia-arena-backend/internal/agent"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
}

type playerRepo interface {
	Create(ctx context.Context, player *entity.Player) error
	Update(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	ListByGame(ctx context.Context, gameID string) ([]*entity.Player, error)
	ListAliveByGame(ctx context.Context, gameID string) ([]*entity.Player, error)
}

type messageRepo interface {
	Create(ctx context.Context, message *entity.DiscussionMessage) error
	ListByGame(ctx context.Context, gameID string) ([]*entity.DiscussionMessage, error)
	ListByRound(ctx context.Context, gameID string, round int) ([]*entity.DiscussionMessage, error)
}

type nightMessageRepo interface {
	Create(ctx context.Context, message *entity.NightMessage) error
	ListByRound(ctx context.Context, gameID string, round int) ([]*entity.NightMessage, error)
}

type voteRepo interface {
	Create(ctx context.Context, vote *entity.Vote) error
	ListByRound(ctx context.Context, gameID string, round int) ([]*entity.Vote, error)
}

type contextBuilder interface {
	Build(ctx context.Context, gameID, playerID string) (*agent.Context, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, gameID, eventType string, payload map[string]any)
}
