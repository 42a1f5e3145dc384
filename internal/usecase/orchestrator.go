package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/rocketscienceinc/mafia-arena-backend/internal/agent"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/apperror"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/config"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/engine"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
)

const maxGenerationRetries = 2

// GameResult - summary of one finished game loop.
type GameResult struct {
	Winner     string
	Reason     string
	FinalRound int
	Duration   time.Duration
}

// OrchestratorDeps - collaborators the orchestrator drives. All are required;
// Start validates them eagerly so a wiring mistake fails before any cost is
// sunk into a run.
type OrchestratorDeps struct {
	Games         gameRepo
	Players       playerRepo
	Messages      messageRepo
	NightMessages nightMessageRepo
	Votes         voteRepo
	Contexts      contextBuilder
	Generator     agent.Generator
	Emitter       eventEmitter
	Tracker       *engine.RepetitionTracker
	Rand          *rand.Rand
}

// Orchestrator - the phase state machine driving one game from NIGHT to
// GAME_OVER. One orchestration task runs per game; turns within a phase are
// strictly sequential so event emission order matches turn order.
type Orchestrator struct {
	logger *slog.Logger
	deps   OrchestratorDeps
	conf   config.Game

	generationTimeout time.Duration
}

func NewOrchestrator(logger *slog.Logger, deps OrchestratorDeps, conf config.Game, generationTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		logger:            logger.With("component", "orchestrator"),
		deps:              deps,
		conf:              conf,
		generationTimeout: generationTimeout,
	}
}

// ValidateDeps - eager dependency-contract check, run at game start before
// committing to a full run.
func (that *Orchestrator) ValidateDeps() error {
	missing := ""

	switch {
	case that.deps.Games == nil:
		missing = "game repository"
	case that.deps.Players == nil:
		missing = "player repository"
	case that.deps.Messages == nil:
		missing = "message repository"
	case that.deps.NightMessages == nil:
		missing = "night message repository"
	case that.deps.Votes == nil:
		missing = "vote repository"
	case that.deps.Contexts == nil:
		missing = "context builder"
	case that.deps.Generator == nil:
		missing = "generator"
	case that.deps.Emitter == nil:
		missing = "event emitter"
	case that.deps.Tracker == nil:
		missing = "repetition tracker"
	case that.deps.Rand == nil:
		missing = "random source"
	}

	if missing != "" {
		return fmt.Errorf("%w: %s", apperror.ErrMissingDependency, missing)
	}

	return nil
}

// Run - drives the full game loop. Generation trouble never surfaces here:
// every turn absorbs it through the retry-and-fallback path. Any error that
// does reach this level (context building, storage) is fatal and aborts the
// game with no winner.
func (that *Orchestrator) Run(ctx context.Context, gameID string) (*GameResult, error) {
	log := that.logger.With("game_id", gameID)
	start := time.Now()

	game, err := that.deps.Games.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = game.ConfirmLobbyState(); err != nil {
		return nil, err
	}

	log.Info("starting game loop", "max_rounds", that.conf.MaxRounds)

	result, err := that.runLoop(ctx, game)
	if err != nil {
		that.abort(ctx, game, err)
		return nil, err
	}

	result.Duration = time.Since(start)

	return result, nil
}

func (that *Orchestrator) runLoop(ctx context.Context, game *entity.Game) (*GameResult, error) {
	log := that.logger.With("game_id", game.ID)

	for game.RoundNumber <= that.conf.MaxRounds {
		mafiaAlive, villagersAlive, err := that.aliveCounts(ctx, game.ID)
		if err != nil {
			return nil, err
		}

		if mafiaAlive+villagersAlive == 0 {
			return nil, apperror.ErrNoLivingPlayers
		}

		log.Info("round start", "round", game.RoundNumber, "mafia_alive", mafiaAlive, "villagers_alive", villagersAlive)

		that.deps.Emitter.Emit(ctx, game.ID, entity.EventRoundStart, map[string]any{
			"round":           game.RoundNumber,
			"mafia_alive":     mafiaAlive,
			"villagers_alive": villagersAlive,
		})

		// NIGHT: Mafia coordinate in private and pick a victim. The kill
		// stays pending until the day announcement applies it.
		if err = that.transition(ctx, game, entity.StatusNight); err != nil {
			return nil, err
		}

		victimID, err := that.runNightPhase(ctx, game)
		if err != nil {
			return nil, err
		}

		game.NightVictimID = victimID
		if err = that.deps.Games.CreateOrUpdate(ctx, game); err != nil {
			return nil, fmt.Errorf("failed to persist night victim: %w", err)
		}

		// DAY_ANNOUNCEMENT: apply the pending kill, collect reactions,
		// then check whether the nightkill already decided the game.
		if err = that.transition(ctx, game, entity.StatusDayAnnouncement); err != nil {
			return nil, err
		}

		if err = that.runDayAnnouncement(ctx, game); err != nil {
			return nil, err
		}

		win, err := that.checkWin(ctx, game.ID)
		if err != nil {
			return nil, err
		}
		if win.Winner != "" {
			return that.finalize(ctx, game, win)
		}

		// DISCUSSION
		if err = that.transition(ctx, game, entity.StatusDiscussion); err != nil {
			return nil, err
		}

		if err = that.runDiscussion(ctx, game); err != nil {
			return nil, err
		}

		// VOTING
		if err = that.transition(ctx, game, entity.StatusVoting); err != nil {
			return nil, err
		}

		eliminatedID, err := that.runVotingPhase(ctx, game)
		if err != nil {
			return nil, err
		}

		if eliminatedID != "" {
			if _, err = that.markPlayerDead(ctx, game, eliminatedID, entity.EliminationDayKill); err != nil {
				return nil, err
			}
		}

		// WIN_CHECK
		if err = that.transition(ctx, game, entity.StatusWinCheck); err != nil {
			return nil, err
		}

		win, err = that.checkWin(ctx, game.ID)
		if err != nil {
			return nil, err
		}
		if win.Winner != "" {
			return that.finalize(ctx, game, win)
		}

		game.RoundNumber++
	}

	log.Warn("max rounds reached, forcing game end", "round", game.RoundNumber, "max_rounds", that.conf.MaxRounds)

	mafiaAlive, villagersAlive, err := that.aliveCounts(ctx, game.ID)
	if err != nil {
		return nil, err
	}

	return that.finalize(ctx, game, entity.ForcedWinner(mafiaAlive, villagersAlive))
}

// transition - persists the new phase and emits phase_change BEFORE any phase
// work begins, so observers can render countdowns from a server-authoritative
// timestamp.
func (that *Orchestrator) transition(ctx context.Context, game *entity.Game, phase string) error {
	from := game.CurrentPhase
	if from == "" {
		from = entity.StatusLobby
	}

	startTime := time.Now()
	game.EnterPhase(phase, game.RoundNumber, startTime)

	if err := that.deps.Games.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to persist phase transition: %w", err)
	}

	payload := map[string]any{
		"from":             from,
		"to":               phase,
		"round":            game.RoundNumber,
		"phase_start_time": startTime.Format(time.RFC3339),
	}

	if duration := that.conf.PhaseDurations.For(phase); duration > 0 {
		payload["phase_end_time"] = startTime.Add(duration).Format(time.RFC3339)
	}

	that.deps.Emitter.Emit(ctx, game.ID, entity.EventPhaseChange, payload)

	that.logger.Debug("phase transition", "game_id", game.ID, "from", from, "to", phase, "round", game.RoundNumber)

	return nil
}

func (that *Orchestrator) aliveCounts(ctx context.Context, gameID string) (mafiaAlive, villagersAlive int, err error) {
	alive, err := that.deps.Players.ListAliveByGame(ctx, gameID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list living players: %w", err)
	}

	for _, player := range alive {
		if player.IsMafia() {
			mafiaAlive++
		} else {
			villagersAlive++
		}
	}

	return mafiaAlive, villagersAlive, nil
}

func (that *Orchestrator) checkWin(ctx context.Context, gameID string) (entity.WinResult, error) {
	mafiaAlive, villagersAlive, err := that.aliveCounts(ctx, gameID)
	if err != nil {
		return entity.WinResult{}, err
	}

	return entity.EvaluateWinner(mafiaAlive, villagersAlive), nil
}

// markPlayerDead - applies an elimination, clears repetition tracking for the
// player and emits player_eliminated. Role is revealed only in transparency
// mode.
func (that *Orchestrator) markPlayerDead(ctx context.Context, game *entity.Game, playerID, eliminationType string) (*entity.Player, error) {
	player, err := that.deps.Players.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	player.Eliminate(eliminationType, game.RoundNumber)

	if err = that.deps.Players.Update(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to persist elimination: %w", err)
	}

	that.deps.Tracker.ClearPlayer(player.ID)

	payload := map[string]any{
		"player_id":        player.ID,
		"player_name":      player.Name,
		"elimination_type": eliminationType,
		"round":            game.RoundNumber,
	}
	if that.conf.Transparency {
		payload["role"] = player.Role
	}

	that.deps.Emitter.Emit(ctx, game.ID, entity.EventPlayerEliminated, payload)

	that.logger.Info("player eliminated",
		"game_id", game.ID, "player_id", player.ID, "player_name", player.Name,
		"elimination_type", eliminationType, "round", game.RoundNumber)

	return player, nil
}

func (that *Orchestrator) finalize(ctx context.Context, game *entity.Game, win entity.WinResult) (*GameResult, error) {
	game.Finish(win.Winner, win.Reason)

	if err := that.deps.Games.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to persist game over: %w", err)
	}

	that.deps.Tracker.Reset()

	that.deps.Emitter.Emit(ctx, game.ID, entity.EventGameOver, map[string]any{
		"winner":      win.Winner,
		"final_round": game.RoundNumber,
		"reason":      win.Reason,
	})

	that.logger.Info("game over", "game_id", game.ID, "winner", win.Winner, "reason", win.Reason, "final_round", game.RoundNumber)

	return &GameResult{
		Winner:     win.Winner,
		Reason:     win.Reason,
		FinalRound: game.RoundNumber,
	}, nil
}

// abort - fatal-error path: the game must never be left stuck in an
// intermediate phase, so it is finished with no winner and an error event.
func (that *Orchestrator) abort(ctx context.Context, game *entity.Game, cause error) {
	that.logger.Error("fatal error in game loop", "game_id", game.ID, "error", cause)

	game.Finish("", "aborted: "+cause.Error())

	if err := that.deps.Games.CreateOrUpdate(ctx, game); err != nil {
		that.logger.Error("failed to persist aborted game", "game_id", game.ID, "error", err)
	}

	that.deps.Tracker.Reset()

	that.deps.Emitter.Emit(ctx, game.ID, entity.EventGameError, map[string]any{
		"round": game.RoundNumber,
		"error": cause.Error(),
	})
}

// generateValidated - the per-turn generation algorithm: call the generator
// under a bounded timeout, validate, retry with a corrective instruction, and
// fall back to a deterministic utterance so the game never stalls on a bad
// agent response. Returns the accepted text and whether the fallback was used.
func (that *Orchestrator) generateValidated(ctx context.Context, agentContext *agent.Context) (string, bool) {
	player := agentContext.Player

	for attempt := 0; attempt <= maxGenerationRetries; attempt++ {
		genCtx, cancel := context.WithTimeout(ctx, that.generationTimeout)
		reply, err := that.deps.Generator.Generate(genCtx, agentContext.Request())
		cancel()

		if err != nil {
			// timeouts and API errors are treated like validation failures
			that.logger.Warn("generation failed",
				"player_id", player.ID, "player_name", player.Name, "attempt", attempt, "error", err)
			continue
		}

		result := agent.ValidateResponse(reply.Text, that.conf.MinWords, that.conf.MaxWords)
		if result.Valid {
			for _, warning := range result.Warnings {
				that.logger.Debug("response warning", "player_id", player.ID, "warning", warning)
			}
			return reply.Text, false
		}

		that.logger.Warn("invalid response",
			"player_id", player.ID, "player_name", player.Name, "attempt", attempt, "reason", result.Err)

		agentContext.Corrections = append(agentContext.Corrections,
			fmt.Sprintf("Your previous response was rejected (%s). Reply with a short, in-character message about the game, between %d and %d words.",
				result.Err, that.conf.MinWords, that.conf.MaxWords))
	}

	return fallbackResponse(player), true
}

// fallbackResponse - deterministic substitute utterance, keyed by seat so the
// same player always falls back the same way.
func fallbackResponse(player *entity.Player) string {
	fallbacks := []string{
		"%s carefully observes the others' reactions.",
		"%s takes a moment to think about the round.",
		"%s remains silent, considering the accusations.",
		"%s listens intently to the other players.",
		"%s weighs the evidence presented so far.",
	}

	return fmt.Sprintf(fallbacks[player.Position%len(fallbacks)], player.Name)
}

func (that *Orchestrator) turnDelay(ctx context.Context) {
	delay := that.conf.TurnDelay()
	if delay <= 0 {
		return
	}

	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}
