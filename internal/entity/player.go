package entity

const (
	RoleMafia    = "MAFIA"
	RoleVillager = "VILLAGER"

	EliminationNightKill = "NIGHTKILL"
	EliminationDayKill   = "DAYKILL"
)

type Player struct {
	ID          string `json:"id"`
	GameID      string `json:"game_id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Personality string `json:"personality"`
	IsAlive     bool   `json:"is_alive"`
	Position    int    `json:"position"`

	EliminatedInRound int    `json:"eliminated_in_round,omitempty"`
	EliminationType   string `json:"elimination_type,omitempty"`
}

func (that *Player) IsMafia() bool {
	return that.Role == RoleMafia
}

// Eliminate - applies an elimination exactly once; role is never mutated.
func (that *Player) Eliminate(eliminationType string, round int) {
	that.IsAlive = false
	that.EliminationType = eliminationType
	that.EliminatedInRound = round
}
