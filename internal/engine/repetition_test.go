package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPhrases(t *testing.T) {
	t.Run("Slides a three word window over the message", func(t *testing.T) {
		phrases := ExtractPhrases("I think Agent-B is suspicious")

		require.Equal(t, []string{
			"i think agent-b",
			"think agent-b is",
			"agent-b is suspicious",
		}, phrases)
	})

	t.Run("Short messages produce no phrases", func(t *testing.T) {
		assert.Nil(t, ExtractPhrases("too short"))
	})
}

func TestRepetitionTracker(t *testing.T) {
	t.Run("Prohibited list holds at most five phrases most recent first", func(t *testing.T) {
		// Given: a tracker fed one seven-word message
		tracker := NewRepetitionTracker()
		tracker.AddMessage("p1", "one two three four five six seven")

		// When: reading the prohibited phrases
		prohibited := tracker.ProhibitedPhrases("p1")

		// Then: exactly five phrases, starting with the first extracted
		require.Len(t, prohibited, 5)
		assert.Equal(t, "one two three", prohibited[0])
	})

	t.Run("Window keeps only the twenty most recent phrases", func(t *testing.T) {
		// Given: three messages of eight words each (six phrases per message)
		tracker := NewRepetitionTracker()
		tracker.AddMessage("p1", "a b c d e f g h")
		tracker.AddMessage("p1", "i j k l m n o p")
		tracker.AddMessage("p1", "q r s t u v w x")

		// Then: the window should be capped
		assert.Equal(t, 18, tracker.PhraseCount("p1"))

		tracker.AddMessage("p1", "y z aa bb cc dd ee ff")
		assert.Equal(t, 20, tracker.PhraseCount("p1"))
	})

	t.Run("Newest message phrases front the prohibited list", func(t *testing.T) {
		tracker := NewRepetitionTracker()
		tracker.AddMessage("p1", "alpha beta gamma delta")
		tracker.AddMessage("p1", "epsilon zeta eta theta")

		prohibited := tracker.ProhibitedPhrases("p1")
		require.NotEmpty(t, prohibited)
		assert.Equal(t, "epsilon zeta eta", prohibited[0])
	})

	t.Run("Players are tracked independently", func(t *testing.T) {
		tracker := NewRepetitionTracker()
		tracker.AddMessage("p1", "alpha beta gamma delta")

		assert.Empty(t, tracker.ProhibitedPhrases("p2"))
	})

	t.Run("ClearPlayer drops only that player", func(t *testing.T) {
		tracker := NewRepetitionTracker()
		tracker.AddMessage("p1", "alpha beta gamma delta")
		tracker.AddMessage("p2", "epsilon zeta eta theta")

		tracker.ClearPlayer("p1")

		assert.Zero(t, tracker.PhraseCount("p1"))
		assert.NotZero(t, tracker.PhraseCount("p2"))
	})

	t.Run("Reset drops everything", func(t *testing.T) {
		tracker := NewRepetitionTracker()
		tracker.AddMessage("p1", "alpha beta gamma delta")

		tracker.Reset()

		assert.Zero(t, tracker.PhraseCount("p1"))
	})
}
