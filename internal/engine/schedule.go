package engine

import (
	"sort"
	"time"

	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
)

// TurnSchedule - drives round-robin turns over the eligible players for one
// phase, bounded by a turn-round budget and a wall-clock deadline.
// Order is by seating position; later turns may reference earlier ones, so
// the schedule is strictly sequential.
type TurnSchedule struct {
	players     []*entity.Player
	totalRounds int
	duration    time.Duration

	round    int
	index    int
	deadline time.Time

	now func() time.Time
}

// NewTurnSchedule - builds a schedule over the given players ordered by
// position. A zero duration means the phase is untimed; otherwise the window
// opens on the first turn.
func NewTurnSchedule(players []*entity.Player, totalRounds int, duration time.Duration) *TurnSchedule {
	ordered := make([]*entity.Player, len(players))
	copy(ordered, players)

	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	return &TurnSchedule{
		players:     ordered,
		totalRounds: totalRounds,
		duration:    duration,
		now:         time.Now,
	}
}

// Next - returns the next player in turn order and advances the schedule.
// Returns nil once the time or round budget is exhausted.
func (that *TurnSchedule) Next() *entity.Player {
	if !that.ShouldContinue() {
		return nil
	}

	player := that.players[that.index]

	that.index++
	if that.index >= len(that.players) {
		that.index = 0
		that.round++
	}

	return player
}

// ShouldContinue - reports whether the schedule still has budget left.
func (that *TurnSchedule) ShouldContinue() bool {
	if len(that.players) == 0 {
		return false
	}

	if that.round >= that.totalRounds {
		return false
	}

	if that.duration > 0 {
		// anchored lazily so the whole window is measured against the
		// schedule's own clock
		if that.deadline.IsZero() {
			that.deadline = that.now().Add(that.duration)
		}

		if !that.now().Before(that.deadline) {
			return false
		}
	}

	return true
}

// Round - current turn round, 0-indexed.
func (that *TurnSchedule) Round() int {
	return that.round
}
