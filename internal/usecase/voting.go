package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/apperror"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/engine"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
)

var votePattern = regexp.MustCompile(`(?i)(?:i vote for|vote:|vote for)\s+(agent-[a-z])`)

// runVotingPhase - every living player casts exactly one vote, in seating
// order so later voters see the running tally. Returns the ID of the player
// voted out, or empty if nobody was eligible to vote.
func (that *Orchestrator) runVotingPhase(ctx context.Context, game *entity.Game) (string, error) {
	alive, err := that.deps.Players.ListAliveByGame(ctx, game.ID)
	if err != nil {
		return "", fmt.Errorf("failed to list living players: %w", err)
	}

	if len(alive) < 2 {
		return "", nil
	}

	votes := make([]*entity.Vote, 0, len(alive))

	for order, voter := range alive {
		// generation trouble is absorbed inside the turn by the fallback
		// path; an error here means a lost vote, which is fatal
		vote, err := that.executeVoteTurn(ctx, game, voter, alive, votes, order)
		if err != nil {
			return "", fmt.Errorf("vote turn for %s: %w", voter.Name, err)
		}

		votes = append(votes, vote)

		that.turnDelay(ctx)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	tally := engine.TallyVotes(votes)

	payload := map[string]any{
		"round":  game.RoundNumber,
		"counts": tally.Counts,
	}
	if tally.TargetID != "" {
		payload["eliminated_id"] = tally.TargetID
	}
	that.deps.Emitter.Emit(ctx, game.ID, entity.EventVotingComplete, payload)

	return tally.TargetID, nil
}

func (that *Orchestrator) executeVoteTurn(ctx context.Context, game *entity.Game, voter *entity.Player, alive []*entity.Player, votesSoFar []*entity.Vote, order int) (*entity.Vote, error) {
	agentContext, err := that.deps.Contexts.Build(ctx, game.ID, voter.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to build agent context: %w", err)
	}

	agentContext.PhaseInstruction = votingInstruction(voter, alive, votesSoFar)

	text, usedFallback := that.generateValidated(ctx, agentContext)

	target := parseVote(text, voter, alive)
	if target == nil || usedFallback {
		// an unparseable or fallback response still produces a vote so the
		// one-vote-per-voter invariant holds
		target = defaultVoteTarget(voter, alive)
	}

	if target == nil {
		return nil, fmt.Errorf("%w: no target for %s", apperror.ErrNoEligibleVoters, voter.Name)
	}

	vote := &entity.Vote{
		ID:            uuid.NewString(),
		GameID:        game.ID,
		RoundNumber:   game.RoundNumber,
		VoterID:       voter.ID,
		TargetID:      target.ID,
		Justification: text,
		VoteOrder:     order,
		Timestamp:     time.Now(),
	}

	if err = that.deps.Votes.Create(ctx, vote); err != nil {
		return nil, fmt.Errorf("failed to persist vote: %w", err)
	}

	that.deps.Tracker.AddMessage(voter.ID, text)

	that.deps.Emitter.Emit(ctx, game.ID, entity.EventVoteCast, map[string]any{
		"voter_id":      voter.ID,
		"voter_name":    voter.Name,
		"target_id":     target.ID,
		"target_name":   target.Name,
		"justification": text,
		"round":         game.RoundNumber,
		"vote_order":    order,
	})

	return vote, nil
}

func votingInstruction(voter *entity.Player, alive []*entity.Player, votesSoFar []*entity.Vote) string {
	byID := make(map[string]*entity.Player, len(alive))

	var candidates []string
	for _, player := range alive {
		byID[player.ID] = player
		if player.ID != voter.ID {
			candidates = append(candidates, player.Name)
		}
	}

	var instruction strings.Builder
	instruction.WriteString("It is the VOTING phase. You must vote to eliminate one player. ")
	instruction.WriteString("Candidates: ")
	instruction.WriteString(strings.Join(candidates, ", "))
	instruction.WriteString(". ")

	if len(votesSoFar) > 0 {
		instruction.WriteString("Votes cast so far this round: ")
		parts := make([]string, 0, len(votesSoFar))
		for _, vote := range votesSoFar {
			vtr, tgt := byID[vote.VoterID], byID[vote.TargetID]
			if vtr == nil || tgt == nil {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s voted for %s", vtr.Name, tgt.Name))
		}
		instruction.WriteString(strings.Join(parts, "; "))
		instruction.WriteString(". ")
	}

	instruction.WriteString(`State your vote explicitly as "I vote for <name>" and give a one-sentence justification.`)

	return instruction.String()
}

// parseVote - extracts the voted-for player from the response. Self-votes and
// names of dead players do not parse.
func parseVote(text string, voter *entity.Player, alive []*entity.Player) *entity.Player {
	match := votePattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	name := strings.ToLower(match[1])
	for _, player := range alive {
		if strings.ToLower(player.Name) == name && player.ID != voter.ID {
			return player
		}
	}

	return nil
}

// defaultVoteTarget - the lowest-seated living player other than the voter,
// so a forced vote is deterministic.
func defaultVoteTarget(voter *entity.Player, alive []*entity.Player) *entity.Player {
	for _, player := range alive {
		if player.ID != voter.ID {
			return player
		}
	}

	return nil
}
