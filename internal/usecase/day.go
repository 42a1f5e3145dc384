package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/engine"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
)

// runDayAnnouncement - applies the pending night kill, announces it to the
// town and gathers short reactions from the survivors. A night with no victim
// is announced as a quiet night.
func (that *Orchestrator) runDayAnnouncement(ctx context.Context, game *entity.Game) error {
	var victim *entity.Player

	if game.NightVictimID != "" {
		var err error
		victim, err = that.markPlayerDead(ctx, game, game.NightVictimID, entity.EliminationNightKill)
		if err != nil {
			return err
		}

		game.NightVictimID = ""
		if err = that.deps.Games.CreateOrUpdate(ctx, game); err != nil {
			return fmt.Errorf("failed to clear night victim: %w", err)
		}
	}

	payload := map[string]any{
		"round": game.RoundNumber,
	}
	if victim != nil {
		payload["victim_id"] = victim.ID
		payload["victim_name"] = victim.Name
		if that.conf.Transparency {
			payload["victim_role"] = victim.Role
		}
	} else {
		payload["quiet_night"] = true
	}
	that.deps.Emitter.Emit(ctx, game.ID, entity.EventNightKill, payload)

	alive, err := that.deps.Players.ListAliveByGame(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("failed to list living players: %w", err)
	}

	announcement := "The town wakes up. Nobody was eliminated during the night."
	if victim != nil {
		announcement = fmt.Sprintf("The town wakes up to terrible news: %s was eliminated during the night.", victim.Name)
	}

	schedule := engine.NewTurnSchedule(alive, 1, that.conf.PhaseDurations.For(entity.StatusDayAnnouncement))

	turn := 0
	for {
		player := schedule.Next()
		if player == nil {
			break
		}

		turn++
		if err = that.executeReactionTurn(ctx, game, player, announcement, turn); err != nil {
			return fmt.Errorf("reaction turn for %s: %w", player.Name, err)
		}

		that.turnDelay(ctx)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return nil
}

func (that *Orchestrator) executeReactionTurn(ctx context.Context, game *entity.Game, player *entity.Player, announcement string, turn int) error {
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

	agentContext.PhaseInstruction = "It is the morning announcement. " + announcement +
		" React briefly and in character to the news."

	text, _ := that.generateValidated(ctx, agentContext)

	// reactions join the public record so later discussion can reference them
	reaction := &entity.DiscussionMessage{
		ID:          uuid.NewString(),
		GameID:      game.ID,
		PlayerID:    player.ID,
		PlayerName:  player.Name,
		RoundNumber: game.RoundNumber,
		Message:     text,
		Timestamp:   time.Now(),
	}

	if err = that.deps.Messages.Create(ctx, reaction); err != nil {
		return fmt.Errorf("failed to persist reaction: %w", err)
	}

	that.deps.Tracker.AddMessage(player.ID, text)

	that.deps.Emitter.Emit(ctx, game.ID, entity.EventDayReaction, map[string]any{
		"player_id":   player.ID,
		"player_name": player.Name,
		"message":     text,
		"round":       game.RoundNumber,
	})

	that.deps.Emitter.Emit(ctx, game.ID, entity.EventTurnEnd, map[string]any{
		"player_id": player.ID,
		"round":     game.RoundNumber,
		"turn":      turn,
	})

	return nil
}
