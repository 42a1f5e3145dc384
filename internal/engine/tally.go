package engine

import "github.com/rocketscienceinc/mafia-arena-backend/internal/entity"

// TallyResult - per-target vote counts and the resolved elimination target.
// TargetID is empty when no votes were cast.
type TallyResult struct {
	TargetID string
	Counts   map[string]int
}

// TallyVotes - counts votes per target and resolves the elimination.
// The target with the highest count wins; ties resolve to the target whose
// first vote carries the lowest voteOrder, which is deterministic for
// identical inputs.
func TallyVotes(votes []*entity.Vote) TallyResult {
	counts := make(map[string]int, len(votes))
	firstOrder := make(map[string]int, len(votes))

	for _, vote := range votes {
		counts[vote.TargetID]++
		if _, seen := firstOrder[vote.TargetID]; !seen {
			firstOrder[vote.TargetID] = vote.VoteOrder
		}
	}

	var target string
	for candidate, count := range counts {
		if target == "" {
			target = candidate
			continue
		}

		switch {
		case count > counts[target]:
			target = candidate
		case count == counts[target] && firstOrder[candidate] < firstOrder[target]:
			target = candidate
		}
	}

	return TallyResult{TargetID: target, Counts: counts}
}
