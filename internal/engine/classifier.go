package engine

import (
	"regexp"
	"strings"

	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
)

// MessageType - heuristic label for a discussion message. Used for context
// flavor only, never for game logic.
type MessageType string

const (
	MessageAccusation MessageType = "accusation"
	MessageDefense    MessageType = "defense"
	MessageQuestion   MessageType = "question"
	MessageAlliance   MessageType = "alliance"
	MessageNeutral    MessageType = "neutral"
)

// Accusation - an extracted accusation pointing at a target player.
type Accusation struct {
	AccuserID  string
	TargetID   string
	TargetName string
}

var accusationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)i (think|believe|suspect) .* is (mafia|suspicious)`),
	regexp.MustCompile(`(?i)i suspect `),
	regexp.MustCompile(`(?i) is (suspicious|mafia|the mafia|definitely mafia)`),
	regexp.MustCompile(`(?i)vote for `),
	regexp.MustCompile(`(?i)accuse `),
}

var defensePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)i('m| am) not`),
	regexp.MustCompile(`(?i)that'?s not true`),
	regexp.MustCompile(`(?i)i didn'?t`),
	regexp.MustCompile(`(?i)i'?m innocent`),
	regexp.MustCompile(`(?i)why would i`),
	regexp.MustCompile(`(?i)that doesn'?t make sense`),
}

var questionPattern = regexp.MustCompile(`(?i)\b(why|what|who|when|where|how|can|should|do you|does|did)\b`)

var alliancePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)i agree`),
	regexp.MustCompile(`(?i) is right`),
	regexp.MustCompile(`(?i)let'?s (work|team|cooperate)`),
	regexp.MustCompile(`(?i)i trust`),
	regexp.MustCompile(`(?i)we should (work|team|cooperate)`),
	regexp.MustCompile(`(?i)good point`),
	regexp.MustCompile(`(?i)i support`),
}

// ClassifyMessage - labels a message as accusation, defense, question,
// alliance or neutral. Defense only applies when the author was recently
// accused.
func ClassifyMessage(message, playerID string, recentAccusations []Accusation) MessageType {
	for _, pattern := range accusationPatterns {
		if pattern.MatchString(message) {
			return MessageAccusation
		}
	}

	wasAccused := false
	for _, accusation := range recentAccusations {
		if accusation.TargetID == playerID {
			wasAccused = true
			break
		}
	}

	if wasAccused {
		for _, pattern := range defensePatterns {
			if pattern.MatchString(message) {
				return MessageDefense
			}
		}
	}

	if strings.Contains(message, "?") || questionPattern.MatchString(message) {
		return MessageQuestion
	}

	for _, pattern := range alliancePatterns {
		if pattern.MatchString(message) {
			return MessageAlliance
		}
	}

	return MessageNeutral
}

var accusationTargetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)i think (Agent-[A-Z]) is (?:mafia|suspicious)`),
	regexp.MustCompile(`(?i)i suspect (Agent-[A-Z])`),
	regexp.MustCompile(`(?i)i vote for (Agent-[A-Z])`),
}

// ExtractRecentAccusations - scans the last maxRecent messages for
// accusations against known player names.
func ExtractRecentAccusations(messages []*entity.DiscussionMessage, players []*entity.Player, maxRecent int) []Accusation {
	byName := make(map[string]*entity.Player, len(players))
	for _, player := range players {
		byName[strings.ToLower(player.Name)] = player
	}

	if len(messages) > maxRecent {
		messages = messages[len(messages)-maxRecent:]
	}

	var accusations []Accusation

	for _, msg := range messages {
		for _, pattern := range accusationTargetPatterns {
			match := pattern.FindStringSubmatch(msg.Message)
			if match == nil {
				continue
			}

			target, ok := byName[strings.ToLower(match[1])]
			if ok {
				accusations = append(accusations, Accusation{
					AccuserID:  msg.PlayerID,
					TargetID:   target.ID,
					TargetName: target.Name,
				})
			}

			// one accusation per message
			break
		}
	}

	return accusations
}
