package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/mafia-arena-backend/internal/engine"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
)

const (
	maxConversationMessages = 30
	maxRecentAccusations    = 10
)

type gameStore interface {
	GetByID(ctx context.Context, id string) (*entity.Game, error)
}

type playerStore interface {
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	ListByGame(ctx context.Context, gameID string) ([]*entity.Player, error)
}

type messageStore interface {
	ListByGame(ctx context.Context, gameID string) ([]*entity.DiscussionMessage, error)
}

type nightMessageStore interface {
	ListByRound(ctx context.Context, gameID string, round int) ([]*entity.NightMessage, error)
}

type voteStore interface {
	ListByGame(ctx context.Context, gameID string) ([]*entity.Vote, error)
}

// Context - role-appropriate view of the game history, ready to be turned
// into a generation request.
type Context struct {
	Player            *entity.Player
	SystemPrompt      string
	GameState         string
	PhaseInstruction  string
	Conversation      []ChatMessage
	NightMessages     []*entity.NightMessage
	ProhibitedPhrases []string
	Corrections       []string
}

// IncludesNightMessages - true only for Mafia contexts; Villagers must never
// receive night coordination content.
func (that *Context) IncludesNightMessages() bool {
	return len(that.NightMessages) > 0
}

// Request - assembles the context into a generation request.
func (that *Context) Request() *Request {
	var system strings.Builder
	system.WriteString(that.SystemPrompt)
	system.WriteString("\n\n")
	system.WriteString(that.GameState)

	if that.PhaseInstruction != "" {
		system.WriteString("\n\n")
		system.WriteString(that.PhaseInstruction)
	}

	if len(that.NightMessages) > 0 {
		system.WriteString("\n\nMAFIA NIGHT COORDINATION (private to you and your allies):\n")
		for _, msg := range that.NightMessages {
			fmt.Fprintf(&system, "- %s: %s\n", msg.PlayerName, msg.Message)
		}
	}

	if len(that.ProhibitedPhrases) > 0 {
		system.WriteString("\n\nDo not reuse these phrases from your recent messages:\n")
		for _, phrase := range that.ProhibitedPhrases {
			fmt.Fprintf(&system, "- %q\n", phrase)
		}
	}

	for _, correction := range that.Corrections {
		system.WriteString("\n\nIMPORTANT: ")
		system.WriteString(correction)
	}

	return &Request{
		System:   system.String(),
		Messages: that.Conversation,
	}
}

// ContextBuilder - assembles role-appropriate agent contexts from persisted
// game history. Lookups fail loudly on unknown players or games; a silent
// mismatch here is a deployment-breaking bug class.
type ContextBuilder struct {
	games    gameStore
	players  playerStore
	messages messageStore
	nights   nightMessageStore
	votes    voteStore
	tracker  *engine.RepetitionTracker
}

func NewContextBuilder(
	games gameStore,
	players playerStore,
	messages messageStore,
	nights nightMessageStore,
	votes voteStore,
	tracker *engine.RepetitionTracker,
) *ContextBuilder {
	return &ContextBuilder{
		games:    games,
		players:  players,
		messages: messages,
		nights:   nights,
		votes:    votes,
		tracker:  tracker,
	}
}

// Build - produces the context for one player's turn.
func (that *ContextBuilder) Build(ctx context.Context, gameID, playerID string) (*Context, error) {
	game, err := that.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	player, err := that.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID != game.ID {
		return nil, fmt.Errorf("player %s does not belong to game %s", playerID, gameID)
	}

	allPlayers, err := that.players.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	messages, err := that.messages.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	votes, err := that.votes.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}

	agentContext := &Context{
		Player:            player,
		SystemPrompt:      systemPrompt(player),
		GameState:         formatGameState(game, allPlayers, messages, votes),
		Conversation:      formatConversation(messages, playerID),
		ProhibitedPhrases: that.tracker.ProhibitedPhrases(playerID),
	}

	// Night coordination is visible to Mafia only. This is a hard
	// information-isolation invariant.
	if player.IsMafia() {
		nightMessages, err := that.nights.ListByRound(ctx, gameID, game.RoundNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to list night messages: %w", err)
		}
		agentContext.NightMessages = nightMessages
	}

	return agentContext, nil
}

func systemPrompt(player *entity.Player) string {
	var strategy string
	if player.IsMafia() {
		strategy = "You are secretly Mafia. Blend in, deflect suspicion from your allies, and steer votes toward Villagers without revealing yourself."
	} else {
		strategy = "You are a Villager. Watch for inconsistencies, build cases from evidence in the discussion, and find the Mafia before they outnumber you."
	}

	return fmt.Sprintf(`You are %s, a player in a social-deduction game of Mafia.
Your personality: %s.
%s
Speak in character, in 1-3 sentences. Never reveal your role, never mention being an AI, and never repeat yourself verbatim.`,
		player.Name, player.Personality, strategy)
}

func formatGameState(game *entity.Game, players []*entity.Player, messages []*entity.DiscussionMessage, votes []*entity.Vote) string {
	byID := make(map[string]*entity.Player, len(players))
	aliveCount := 0
	for _, player := range players {
		byID[player.ID] = player
		if player.IsAlive {
			aliveCount++
		}
	}

	var state strings.Builder
	fmt.Fprintf(&state, "CURRENT GAME STATE:\n- Round: %d\n- Players alive: %d\n", game.RoundNumber, aliveCount)

	state.WriteString("\nPREVIOUS VOTES:\n")
	if len(votes) == 0 {
		state.WriteString("- no votes have been cast yet\n")
	}
	for _, vote := range votes {
		voter, target := byID[vote.VoterID], byID[vote.TargetID]
		if voter == nil || target == nil {
			continue
		}
		fmt.Fprintf(&state, "- round %d: %s voted for %s\n", vote.RoundNumber, voter.Name, target.Name)
	}

	state.WriteString("\nELIMINATED PLAYERS:\n")
	eliminated := 0
	for _, player := range players {
		if !player.IsAlive {
			eliminated++
			fmt.Fprintf(&state, "- %s was eliminated in round %d\n", player.Name, player.EliminatedInRound)
		}
	}
	if eliminated == 0 {
		state.WriteString("- no players have been eliminated yet\n")
	}

	accusations := engine.ExtractRecentAccusations(messages, players, maxRecentAccusations)
	if len(accusations) > 0 {
		state.WriteString("\nRECENT ACCUSATIONS:\n")
		for _, accusation := range accusations {
			accuser := byID[accusation.AccuserID]
			if accuser == nil {
				continue
			}
			fmt.Fprintf(&state, "- %s accused %s\n", accuser.Name, accusation.TargetName)
		}
	}

	return state.String()
}

// formatConversation - maps the recent public history into chat turns: the
// current player's past messages become assistant turns, everyone else's
// become user turns. Consecutive same-role turns are merged.
func formatConversation(messages []*entity.DiscussionMessage, currentPlayerID string) []ChatMessage {
	if len(messages) > maxConversationMessages {
		messages = messages[len(messages)-maxConversationMessages:]
	}

	var conversation []ChatMessage

	for _, msg := range messages {
		role := "user"
		if msg.PlayerID == currentPlayerID {
			role = "assistant"
		}

		content := fmt.Sprintf("%s: %s", msg.PlayerName, msg.Message)

		if len(conversation) > 0 && conversation[len(conversation)-1].Role == role {
			conversation[len(conversation)-1].Content += "\n" + content
			continue
		}

		conversation = append(conversation, ChatMessage{Role: role, Content: content})
	}

	// the first turn must come from the user
	if len(conversation) > 0 && conversation[0].Role == "assistant" {
		conversation = conversation[1:]
	}

	if len(conversation) == 0 {
		conversation = append(conversation, ChatMessage{
			Role:    "user",
			Content: "The Discussion phase has begun. Share your initial thoughts or observations about the game.",
		})
	}

	return conversation
}
