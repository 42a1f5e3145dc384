package engine

import (
	"strings"
	"sync"
)

const (
	phraseWords      = 3
	phraseWindowSize = 20
	prohibitedCount  = 5
)

// RepetitionTracker - rolling window of recent 3-word phrases per player,
// used to discourage verbatim repetition in generated responses. Constructed
// per orchestrator process; cleared when a player is eliminated or the game
// ends to bound memory.
type RepetitionTracker struct {
	mu      sync.Mutex
	phrases map[string][]string
}

func NewRepetitionTracker() *RepetitionTracker {
	return &RepetitionTracker{
		phrases: make(map[string][]string),
	}
}

// AddMessage - extracts phrases from a message and prepends them, keeping
// only the most recent phraseWindowSize entries.
func (that *RepetitionTracker) AddMessage(playerID, message string) {
	extracted := ExtractPhrases(message)
	if len(extracted) == 0 {
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	updated := append(extracted, that.phrases[playerID]...)
	if len(updated) > phraseWindowSize {
		updated = updated[:phraseWindowSize]
	}

	that.phrases[playerID] = updated
}

// ProhibitedPhrases - top 5 most recent phrases the player should avoid,
// most recent first.
func (that *RepetitionTracker) ProhibitedPhrases(playerID string) []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	phrases := that.phrases[playerID]
	if len(phrases) > prohibitedCount {
		phrases = phrases[:prohibitedCount]
	}

	result := make([]string, len(phrases))
	copy(result, phrases)

	return result
}

// PhraseCount - number of tracked phrases for a player.
func (that *RepetitionTracker) PhraseCount(playerID string) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.phrases[playerID])
}

// ClearPlayer - drops tracking for an eliminated player.
func (that *RepetitionTracker) ClearPlayer(playerID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.phrases, playerID)
}

// Reset - drops all tracking, used at game end.
func (that *RepetitionTracker) Reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.phrases = make(map[string][]string)
}

// ExtractPhrases - lowercases the message and slides a 3-word window over it.
func ExtractPhrases(message string) []string {
	words := strings.Fields(strings.ToLower(message))
	if len(words) < phraseWords {
		return nil
	}

	phrases := make([]string, 0, len(words)-phraseWords+1)
	for i := 0; i+phraseWords <= len(words); i++ {
		phrases = append(phrases, strings.Join(words[i:i+phraseWords], " "))
	}

	return phrases
}
