package entity

import "time"

type Vote struct {
	ID            string    `json:"id"`
	GameID        string    `json:"game_id"`
	RoundNumber   int       `json:"round_number"`
	VoterID       string    `json:"voter_id"`
	TargetID      string    `json:"target_id"`
	Justification string    `json:"justification"`
	VoteOrder     int       `json:"vote_order"`
	Timestamp     time.Time `json:"timestamp"`
}
