package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
)

type VoteRepository interface {
	Create(ctx context.Context, vote *entity.Vote) error
	ListByGame(ctx context.Context, gameID string) ([]*entity.Vote, error)
	ListByRound(ctx context.Context, gameID string, round int) ([]*entity.Vote, error)
}

type dbVote struct {
	client *redis.Client
}

func NewVoteRepository(client *redis.Client) VoteRepository {
	return &dbVote{
		client: client,
	}
}

func (that *dbVote) Create(ctx context.Context, vote *entity.Vote) error {
	voteJSON, err := json.Marshal(vote)
	if err != nil {
		return fmt.Errorf("could not marshal vote: %w", err)
	}

	feedKey := "game:" + vote.GameID + ":votes"
	if err = that.client.RPush(ctx, feedKey, voteJSON).Err(); err != nil {
		return fmt.Errorf("failed to append vote: %w", err)
	}

	return nil
}

func (that *dbVote) ListByGame(ctx context.Context, gameID string) ([]*entity.Vote, error) {
	feedKey := "game:" + gameID + ":votes"

	raw, err := that.client.LRange(ctx, feedKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read vote feed: %w", err)
	}

	votes := make([]*entity.Vote, 0, len(raw))
	for _, item := range raw {
		var vote entity.Vote
		if err = json.Unmarshal([]byte(item), &vote); err != nil {
			return nil, fmt.Errorf("failed to unmarshal vote: %w", err)
		}
		votes = append(votes, &vote)
	}

	return votes, nil
}

func (that *dbVote) ListByRound(ctx context.Context, gameID string, round int) ([]*entity.Vote, error) {
	votes, err := that.ListByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	filtered := make([]*entity.Vote, 0, len(votes))
	for _, vote := range votes {
		if vote.RoundNumber == round {
			filtered = append(filtered, vote)
		}
	}

	return filtered, nil
}
