package entity

import "time"

// DiscussionMessage - a public utterance, visible to every spectator.
type DiscussionMessage struct {
	ID          string    `json:"id"`
	GameID      string    `json:"game_id"`
	PlayerID    string    `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	RoundNumber int       `json:"round_number"`
	Turn        int       `json:"turn"`
	Message     string    `json:"message"`
	InReplyToID string    `json:"in_reply_to_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NightMessage - Mafia-only coordination message. Never exposed through the
// public discussion feed; spectators see it only in transparency mode.
type NightMessage struct {
	ID          string    `json:"id"`
	GameID      string    `json:"game_id"`
	PlayerID    string    `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	RoundNumber int       `json:"round_number"`
	Turn        int       `json:"turn"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}
