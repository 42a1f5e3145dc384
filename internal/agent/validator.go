package agent

import (
	"fmt"
	"strings"
)

// gameKeywords - open vocabulary of game-relevant terms; a response must
// contain at least one.
var gameKeywords = []string{
	"vote",
	"voting",
	"mafia",
	"suspicious",
	"suspect",
	"innocent",
	"think",
	"believe",
	"accuse",
	"defend",
	"pattern",
	"evidence",
	"round",
	"night",
	"day",
	"eliminated",
	"agent",
	"player",
	"trust",
	"question",
	"why",
	"who",
	"what",
	"how",
	"when",
	"notice",
	"observe",
	"interesting",
}

// forbiddenPhrases - role-breaking or character-breaking content, matched as
// case-insensitive substrings.
var forbiddenPhrases = []string{
	"i am a villager",
	"i am a mafia",
	"i am mafia",
	"we villagers",
	"we mafia",
	"as a villager",
	"as a mafia",
	"as mafia",
	"my role is",
	"my role:",
	"my prompt",
	"my instructions",
	"i am an ai",
	"i am programmed",
	"i was designed",
	"as an ai",
}

// ValidationResult - outcome of validating one generated utterance.
type ValidationResult struct {
	Valid    bool
	Err      string
	Warnings []string
}

// ValidateResponse - pure, side-effect-free response check: word count
// bounds, game-relevant keyword presence, forbidden phrases. Repetition
// issues are warnings, never rejections.
func ValidateResponse(text string, minWords, maxWords int) ValidationResult {
	if strings.TrimSpace(text) == "" {
		return ValidationResult{Err: "empty response"}
	}

	words := strings.Fields(text)
	wordCount := len(words)

	if wordCount < minWords {
		return ValidationResult{Err: fmt.Sprintf("too short (%d words, minimum %d)", wordCount, minWords)}
	}

	if wordCount > maxWords {
		return ValidationResult{Err: fmt.Sprintf("too long (%d words, maximum %d)", wordCount, maxWords)}
	}

	lower := strings.ToLower(text)

	for _, phrase := range forbiddenPhrases {
		if strings.Contains(lower, phrase) {
			return ValidationResult{Err: fmt.Sprintf("contains forbidden phrase: %q", phrase)}
		}
	}

	if !containsGameKeyword(lower) {
		return ValidationResult{Err: "no game-relevant keywords found"}
	}

	var warnings []string
	if hasExcessiveRepetition(lower) {
		warnings = append(warnings, "response contains excessive repetition")
	}

	return ValidationResult{Valid: true, Warnings: warnings}
}

func containsGameKeyword(lower string) bool {
	for _, keyword := range gameKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	return false
}

// hasExcessiveRepetition - same word three times in a row, or any 5-word
// phrase appearing twice within the response.
func hasExcessiveRepetition(lower string) bool {
	words := strings.Fields(lower)

	for i := 0; i+2 < len(words); i++ {
		if words[i] == words[i+1] && words[i] == words[i+2] {
			return true
		}
	}

	const phraseLen = 5
	seen := make(map[string]struct{})
	for i := 0; i+phraseLen <= len(words); i++ {
		phrase := strings.Join(words[i:i+phraseLen], " ")
		if _, ok := seen[phrase]; ok {
			return true
		}
		seen[phrase] = struct{}{}
	}

	return false
}
