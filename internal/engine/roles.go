package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
)

const (
	MinPlayers = 8
	MaxPlayers = 12
)

var (
	ErrPlayerCountOutOfRange = errors.New("player count out of range")
	ErrEmptyPersonalities    = errors.New("personality list is empty")
	ErrTooManyMafia          = errors.New("mafia count must be below player count")
)

// DefaultPersonalities - trait pool cycled across seats when the config does
// not provide its own.
var DefaultPersonalities = []string{
	"analytical",
	"aggressive",
	"cautious",
	"charismatic",
	"paranoid",
	"logical",
	"emotional",
	"strategic",
	"methodical",
	"impulsive",
	"diplomatic",
	"suspicious",
}

// Assignment - one seat of a freshly dealt game. Position and name are
// deterministic; only the role placement is random.
type Assignment struct {
	Name        string
	Role        string
	Personality string
	Position    int
}

// MafiaCountFor - standard Mafia ratio table (25-33%) by player count.
func MafiaCountFor(playerCount int) int {
	switch {
	case playerCount <= 8:
		return 2
	case playerCount <= 11:
		return 3
	default:
		return 4
	}
}

// AssignRoles - partitions playerCount seats into the configured
// Mafia/Villager split and shuffles role placement with a Fisher-Yates pass
// over the injected random source, so role-to-seat mapping is unpredictable
// yet reproducible under a fixed seed.
func AssignRoles(playerCount int, personalities []string, rng *rand.Rand) ([]Assignment, error) {
	if playerCount < MinPlayers || playerCount > MaxPlayers {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrPlayerCountOutOfRange, playerCount, MinPlayers, MaxPlayers)
	}

	if len(personalities) == 0 {
		return nil, ErrEmptyPersonalities
	}

	mafiaCount := MafiaCountFor(playerCount)
	if mafiaCount >= playerCount {
		return nil, fmt.Errorf("%w: %d mafia for %d players", ErrTooManyMafia, mafiaCount, playerCount)
	}

	roles := make([]string, 0, playerCount)
	for i := 0; i < mafiaCount; i++ {
		roles = append(roles, entity.RoleMafia)
	}
	for i := mafiaCount; i < playerCount; i++ {
		roles = append(roles, entity.RoleVillager)
	}

	// Fisher-Yates over the role pool only. Seats stay in creation order.
	for i := len(roles) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		roles[i], roles[j] = roles[j], roles[i]
	}

	assignments := make([]Assignment, 0, playerCount)
	for i := 0; i < playerCount; i++ {
		assignments = append(assignments, Assignment{
			Name:        SeatName(i),
			Role:        roles[i],
			Personality: personalities[i%len(personalities)],
			Position:    i,
		})
	}

	return assignments, nil
}

// SeatName - deterministic seat-letter name for a position (Agent-A, Agent-B, ...).
func SeatName(position int) string {
	return fmt.Sprintf("Agent-%c", rune('A'+position))
}
