package entity

import "time"

// Event type strings use lowercase with underscores, the canonical format
// consumed by stream listeners.
const (
	EventPhaseChange      = "phase_change"
	EventPhaseComplete    = "phase_complete"
	EventRoundStart       = "round_start"
	EventTurnStart        = "turn_start"
	EventMessage          = "message"
	EventTurnEnd          = "turn_end"
	EventNightStart       = "night_start"
	EventNightMessage     = "night_message"
	EventNightComplete    = "night_complete"
	EventNightKill        = "nightkill"
	EventDayReaction      = "day_reaction"
	EventVoteCast         = "vote_cast"
	EventVotingComplete   = "voting_complete"
	EventPlayerEliminated = "player_eliminated"
	EventGameOver         = "game_over"
	EventGameError        = "game_error"
)

// GameEvent - append-only orchestration log entry, kept for replay and
// transcript reconstruction.
type GameEvent struct {
	ID        string         `json:"id"`
	GameID    string         `json:"game_id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}
