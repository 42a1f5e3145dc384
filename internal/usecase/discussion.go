package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/engine"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
)

// runDiscussion - the open-table phase: every living player speaks in seating
// order for a bounded number of turn rounds, all output public.
func (that *Orchestrator) runDiscussion(ctx context.Context, game *entity.Game) error {
	alive, err := that.deps.Players.ListAliveByGame(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("failed to list living players: %w", err)
	}

	schedule := engine.NewTurnSchedule(alive, that.conf.DiscussionTurnRounds, that.conf.PhaseDurations.For(entity.StatusDiscussion))

	turn := 0
	for {
		player := schedule.Next()
		if player == nil {
			break
		}

		turn++
		if err = that.executeDiscussionTurn(ctx, game, player, turn); err != nil {
			return fmt.Errorf("discussion turn for %s: %w", player.Name, err)
		}

		that.turnDelay(ctx)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	that.deps.Emitter.Emit(ctx, game.ID, entity.EventPhaseComplete, map[string]any{
		"phase": entity.StatusDiscussion,
		"round": game.RoundNumber,
		"turns": turn,
	})

	return nil
}

func (that *Orchestrator) executeDiscussionTurn(ctx context.Context, game *entity.Game, player *entity.Player, turn int) error {
	that.deps.Emitter.Emit(ctx, game.ID, entity.EventTurnStart, map[string]any{
		"player_id":   player.ID,
		"player_name": player.Name,
		"round":       game.RoundNumber,
		"turn":        turn,
	})

	agentContext, err := that.deps.Contexts.Build(ctx, game.ID, player.ID)
	if err != nil {
		return fmt.Errorf("failed to build agent context: %w", err)
	}

	agentContext.PhaseInstruction = "It is the DISCUSSION phase. Everyone can hear you. " +
		"Share suspicions, respond to accusations, and build your case before the vote."

	text, usedFallback := that.generateValidated(ctx, agentContext)
	if usedFallback {
		that.logger.Debug("discussion turn fell back", "player_id", player.ID)
	}

	roundMessages, err := that.deps.Messages.ListByRound(ctx, game.ID, game.RoundNumber)
	if err != nil {
		return fmt.Errorf("failed to list round messages: %w", err)
	}

	message := &entity.DiscussionMessage{
		ID:          uuid.NewString(),
		GameID:      game.ID,
		PlayerID:    player.ID,
		PlayerName:  player.Name,
		RoundNumber: game.RoundNumber,
		Turn:        turn,
		Message:     text,
		InReplyToID: replyTarget(roundMessages, player),
		Timestamp:   time.Now(),
	}

	if err = that.deps.Messages.Create(ctx, message); err != nil {
		return fmt.Errorf("failed to persist discussion message: %w", err)
	}

	that.deps.Tracker.AddMessage(player.ID, text)

	that.deps.Emitter.Emit(ctx, game.ID, entity.EventMessage, map[string]any{
		"message_id":   message.ID,
		"player_id":    player.ID,
		"player_name":  player.Name,
		"message":      text,
		"message_type": engine.ClassifyMessage(text, player.ID, nil),
		"round":        game.RoundNumber,
		"turn":         turn,
	})

	that.deps.Emitter.Emit(ctx, game.ID, entity.EventTurnEnd, map[string]any{
		"player_id": player.ID,
		"round":     game.RoundNumber,
		"turn":      turn,
	})

	return nil
}

// replyTarget - the most recent message this round that names the speaker,
// treated as what they are responding to. Empty when nobody addressed them.
func replyTarget(roundMessages []*entity.DiscussionMessage, player *entity.Player) string {
	lowered := strings.ToLower(player.Name)

	for i := len(roundMessages) - 1; i >= 0; i-- {
		msg := roundMessages[i]
		if msg.PlayerID == player.ID {
			continue
		}
		if strings.Contains(strings.ToLower(msg.Message), lowered) {
			return msg.ID
		}
	}

	return ""
}
