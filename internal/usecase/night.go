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

// runNightPhase - the Mafia coordinate over a private channel and converge on
// a victim. Returns the chosen victim's ID; the kill itself stays pending
// until the day announcement.
func (that *Orchestrator) runNightPhase(ctx context.Context, game *entity.Game) (string, error) {
	log := that.logger.With("game_id", game.ID, "round", game.RoundNumber)

	alive, err := that.deps.Players.ListAliveByGame(ctx, game.ID)
	if err != nil {
		return "", fmt.Errorf("failed to list living players: %w", err)
	}

	var mafia, villagers []*entity.Player
	for _, player := range alive {
		if player.IsMafia() {
			mafia = append(mafia, player)
		} else {
			villagers = append(villagers, player)
		}
	}

	that.deps.Emitter.Emit(ctx, game.ID, entity.EventNightStart, map[string]any{
		"round": game.RoundNumber,
	})

	if len(villagers) == 0 {
		return "", nil
	}

	schedule := engine.NewTurnSchedule(mafia, that.conf.NightTurnRounds, that.conf.PhaseDurations.For(entity.StatusNight))

	turn := 0
	for {
		player := schedule.Next()
		if player == nil {
			break
		}

		turn++
		if err = that.executeNightTurn(ctx, game, player, turn); err != nil {
			// the only errors a turn can surface are context or storage
			// failures, and those are fatal
			return "", fmt.Errorf("night turn for %s: %w", player.Name, err)
		}

		that.turnDelay(ctx)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	nightMessages, err := that.deps.NightMessages.ListByRound(ctx, game.ID, game.RoundNumber)
	if err != nil {
		return "", fmt.Errorf("failed to list night messages: %w", err)
	}

	victim := that.selectVictim(nightMessages, mafia, villagers)

	payload := map[string]any{
		"round":         game.RoundNumber,
		"message_count": len(nightMessages),
	}
	if that.conf.Transparency && victim != nil {
		payload["victim_id"] = victim.ID
		payload["victim_name"] = victim.Name
	}
	that.deps.Emitter.Emit(ctx, game.ID, entity.EventNightComplete, payload)

	if victim == nil {
		return "", nil
	}

	log.Info("night victim selected", "victim_id", victim.ID, "victim_name", victim.Name)

	return victim.ID, nil
}

func (that *Orchestrator) executeNightTurn(ctx context.Context, game *entity.Game, player *entity.Player, turn int) error {
	// turn framing during the night would tell spectators exactly who is
	// awake, so in base mode the night turns emit nothing at all
	if that.conf.Transparency {
		that.deps.Emitter.Emit(ctx, game.ID, entity.EventTurnStart, map[string]any{
			"player_id":   player.ID,
			"player_name": player.Name,
			"round":       game.RoundNumber,
			"turn":        turn,
		})
	}

	agentContext, err := that.deps.Contexts.Build(ctx, game.ID, player.ID)
	if err != nil {
		return fmt.Errorf("failed to build agent context: %w", err)
	}

	agentContext.PhaseInstruction = "It is the NIGHT phase. You and your Mafia allies are coordinating in private. " +
		"Discuss which Villager to eliminate tonight and name your preferred target."

	text, usedFallback := that.generateValidated(ctx, agentContext)
	if usedFallback {
		that.logger.Debug("night turn fell back", "player_id", player.ID)
	}

	nightMessage := &entity.NightMessage{
		ID:          uuid.NewString(),
		GameID:      game.ID,
		PlayerID:    player.ID,
		PlayerName:  player.Name,
		RoundNumber: game.RoundNumber,
		Turn:        turn,
		Message:     text,
		Timestamp:   time.Now(),
	}

	if err = that.deps.NightMessages.Create(ctx, nightMessage); err != nil {
		return fmt.Errorf("failed to persist night message: %w", err)
	}

	that.deps.Tracker.AddMessage(player.ID, text)

	// night coordination reaches spectators only in transparency mode
	if that.conf.Transparency {
		that.deps.Emitter.Emit(ctx, game.ID, entity.EventNightMessage, map[string]any{
			"player_id":   player.ID,
			"player_name": player.Name,
			"message":     text,
			"round":       game.RoundNumber,
			"turn":        turn,
		})

		that.deps.Emitter.Emit(ctx, game.ID, entity.EventTurnEnd, map[string]any{
			"player_id": player.ID,
			"round":     game.RoundNumber,
			"turn":      turn,
		})
	}

	return nil
}

// selectVictim - consensus by mention counting: each candidate's name is
// counted across the night conversation, and a candidate wins with at least
// ceil(mafia/2) mentions. Ties break toward the most recently mentioned
// candidate; with no consensus at all a random living Villager is chosen so
// the night always produces a victim.
func (that *Orchestrator) selectVictim(nightMessages []*entity.NightMessage, mafia, villagers []*entity.Player) *entity.Player {
	if len(villagers) == 0 {
		return nil
	}

	mentionCounts := make(map[string]int, len(villagers))
	lastMention := make(map[string]int, len(villagers))

	for i, msg := range nightMessages {
		lowered := strings.ToLower(msg.Message)
		for _, candidate := range villagers {
			if strings.Contains(lowered, strings.ToLower(candidate.Name)) {
				mentionCounts[candidate.ID]++
				lastMention[candidate.ID] = i
			}
		}
	}

	threshold := (len(mafia) + 1) / 2

	var victim *entity.Player
	bestCount := 0
	for _, candidate := range villagers {
		count := mentionCounts[candidate.ID]
		if count < threshold || count < bestCount {
			continue
		}
		if count > bestCount || victim == nil || lastMention[candidate.ID] > lastMention[victim.ID] {
			victim = candidate
			bestCount = count
		}
	}

	if victim == nil {
		victim = villagers[that.deps.Rand.Intn(len(villagers))]
	}

	return victim
}
