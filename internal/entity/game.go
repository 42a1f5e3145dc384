package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/mafia-arena-backend/internal/apperror"
)

const (
	StatusLobby           = "LOBBY"
	StatusNight           = "NIGHT"
	StatusDayAnnouncement = "DAY_ANNOUNCEMENT"
	StatusDiscussion      = "DISCUSSION"
	StatusVoting          = "VOTING"
	StatusWinCheck        = "WIN_CHECK"
	StatusGameOver        = "GAME_OVER"
)

const (
	WinnerMafia     = "MAFIA"
	WinnerVillagers = "VILLAGERS"
)

// PhaseSequence - the phase order within one round. The loop back to NIGHT
// and the terminal GAME_OVER transition are owned by the orchestrator.
var PhaseSequence = []string{
	StatusNight,
	StatusDayAnnouncement,
	StatusDiscussion,
	StatusVoting,
	StatusWinCheck,
}

type Game struct {
	ID             string    `json:"id"`
	Status         string    `json:"status"`
	CurrentPhase   string    `json:"current_phase"`
	RoundNumber    int       `json:"round_number"`
	PhaseStartTime time.Time `json:"phase_start_time"`
	Winner         string    `json:"winner,omitempty"`
	WinReason      string    `json:"win_reason,omitempty"`
	PlayerCount    int       `json:"player_count"`

	// NightVictimID holds the pending night elimination between the NIGHT
	// and DAY_ANNOUNCEMENT phases. Cleared once the kill is applied.
	NightVictimID string `json:"night_victim_id,omitempty"`
}

func NewGame(id string, playerCount int) *Game {
	return &Game{
		ID:          id,
		Status:      StatusLobby,
		RoundNumber: 1,
		PlayerCount: playerCount,
	}
}

func (that *Game) IsLobby() bool {
	return that.Status == StatusLobby
}

func (that *Game) IsOver() bool {
	return that.Status == StatusGameOver
}

// ConfirmLobbyState - guards the at-most-one-orchestrator invariant: a game
// may only be started from LOBBY.
func (that *Game) ConfirmLobbyState() error {
	switch {
	case that.IsOver():
		return apperror.ErrGameFinished
	case !that.IsLobby():
		return fmt.Errorf("%w: status %s", apperror.ErrGameAlreadyStarted, that.Status)
	default:
		return nil
	}
}

// EnterPhase - moves status and currentPhase together under orchestrator control.
func (that *Game) EnterPhase(phase string, round int, startTime time.Time) {
	that.Status = phase
	that.CurrentPhase = phase
	that.RoundNumber = round
	that.PhaseStartTime = startTime
}

// Finish - transitions the game to its terminal state exactly once.
// An empty winner marks a game aborted by a fatal error.
func (that *Game) Finish(winner, reason string) {
	that.Status = StatusGameOver
	that.CurrentPhase = StatusGameOver
	that.Winner = winner
	that.WinReason = reason
	that.NightVictimID = ""
}
