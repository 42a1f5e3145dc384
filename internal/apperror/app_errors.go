package apperror

import "errors"

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrGameAlreadyStarted = errors.New("game is already started")
	ErrGameFinished       = errors.New("game is already finished")
	ErrNoEligibleVoters   = errors.New("no eligible voters")
	ErrNoLivingPlayers    = errors.New("no living players")
	ErrMissingDependency  = errors.New("missing orchestrator dependency")
)
