package agent

import (
	"context"
	"testing"

	"github.com/rocketscienceinc/mafia-arena-backend/internal/apperror"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/engine"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStores struct {
	game          *entity.Game
	players       []*entity.Player
	messages      []*entity.DiscussionMessage
	nightMessages []*entity.NightMessage
	votes         []*entity.Vote
}

func (that *stubStores) GetByID(_ context.Context, id string) (*entity.Game, error) {
	if that.game == nil || that.game.ID != id {
		return nil, apperror.ErrGameNotFound
	}
	return that.game, nil
}

func (that *stubStores) ListByGame(_ context.Context, _ string) ([]*entity.Player, error) {
	return that.players, nil
}

func (that *stubStores) ListByRound(_ context.Context, _ string, _ int) ([]*entity.NightMessage, error) {
	return that.nightMessages, nil
}

type stubPlayerStore struct {
	players []*entity.Player
}

func (that *stubPlayerStore) GetByID(_ context.Context, id string) (*entity.Player, error) {
	for _, player := range that.players {
		if player.ID == id {
			return player, nil
		}
	}
	return nil, apperror.ErrPlayerNotFound
}

func (that *stubPlayerStore) ListByGame(_ context.Context, _ string) ([]*entity.Player, error) {
	return that.players, nil
}

type stubMessageStore struct {
	messages []*entity.DiscussionMessage
}

func (that *stubMessageStore) ListByGame(_ context.Context, _ string) ([]*entity.DiscussionMessage, error) {
	return that.messages, nil
}

type stubVoteStore struct {
	votes []*entity.Vote
}

func (that *stubVoteStore) ListByGame(_ context.Context, _ string) ([]*entity.Vote, error) {
	return that.votes, nil
}

func newTestBuilder(stores *stubStores) *ContextBuilder {
	return NewContextBuilder(
		stores,
		&stubPlayerStore{players: stores.players},
		&stubMessageStore{messages: stores.messages},
		stores,
		&stubVoteStore{votes: stores.votes},
		engine.NewRepetitionTracker(),
	)
}

func testStores() *stubStores {
	return &stubStores{
		game: &entity.Game{ID: "g1", Status: entity.StatusDiscussion, CurrentPhase: entity.StatusDiscussion, RoundNumber: 2},
		players: []*entity.Player{
			{ID: "p1", GameID: "g1", Name: "Agent-A", Role: entity.RoleMafia, IsAlive: true, Position: 0, Personality: "analytical"},
			{ID: "p2", GameID: "g1", Name: "Agent-B", Role: entity.RoleVillager, IsAlive: true, Position: 1, Personality: "cautious"},
			{ID: "p3", GameID: "g1", Name: "Agent-C", Role: entity.RoleVillager, IsAlive: true, Position: 2, Personality: "paranoid"},
		},
		nightMessages: []*entity.NightMessage{
			{ID: "n1", GameID: "g1", PlayerID: "p1", PlayerName: "Agent-A", RoundNumber: 2, Message: "Let's target Agent-B tonight"},
		},
	}
}

func TestContextBuilder_Build(t *testing.T) {
	t.Run("Mafia context includes night coordination", func(t *testing.T) {
		// Given: a game with one stored night message
		builder := newTestBuilder(testStores())

		// When: building the Mafia player's context
		agentContext, err := builder.Build(context.Background(), "g1", "p1")
		require.NoError(t, err)

		// Then: the night channel is present and rendered into the request
		require.True(t, agentContext.IncludesNightMessages())
		request := agentContext.Request()
		assert.Contains(t, request.System, "Let's target Agent-B tonight")
	})

	t.Run("Villager context never includes night coordination", func(t *testing.T) {
		// Given: the same game, viewed by a Villager
		builder := newTestBuilder(testStores())

		// When: building the Villager's context
		agentContext, err := builder.Build(context.Background(), "g1", "p2")
		require.NoError(t, err)

		// Then: no night content anywhere in the prompt material
		require.False(t, agentContext.IncludesNightMessages())
		request := agentContext.Request()
		assert.NotContains(t, request.System, "Let's target Agent-B tonight")
		for _, msg := range request.Messages {
			assert.NotContains(t, msg.Content, "Let's target Agent-B tonight")
		}
	})

	t.Run("Unknown player fails loudly", func(t *testing.T) {
		builder := newTestBuilder(testStores())

		_, err := builder.Build(context.Background(), "g1", "missing")

		assert.ErrorIs(t, err, apperror.ErrPlayerNotFound)
	})

	t.Run("Unknown game fails loudly", func(t *testing.T) {
		builder := newTestBuilder(testStores())

		_, err := builder.Build(context.Background(), "missing", "p1")

		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Player from a different game is rejected", func(t *testing.T) {
		// Given: a player record pointing at another game
		stores := testStores()
		stores.players[1].GameID = "other-game"
		builder := newTestBuilder(stores)

		// When: building their context against g1
		_, err := builder.Build(context.Background(), "g1", "p2")

		// Then: the mismatch fails the build
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not belong to game")
	})

	t.Run("System prompt carries name personality and role strategy", func(t *testing.T) {
		builder := newTestBuilder(testStores())

		agentContext, err := builder.Build(context.Background(), "g1", "p2")
		require.NoError(t, err)

		assert.Contains(t, agentContext.SystemPrompt, "Agent-B")
		assert.Contains(t, agentContext.SystemPrompt, "cautious")
		assert.Contains(t, agentContext.SystemPrompt, "Villager")
	})
}

func TestFormatConversation(t *testing.T) {
	t.Run("Own messages become assistant turns others become user turns", func(t *testing.T) {
		messages := []*entity.DiscussionMessage{
			{PlayerID: "p2", PlayerName: "Agent-B", Message: "first"},
			{PlayerID: "p1", PlayerName: "Agent-A", Message: "second"},
		}

		conversation := formatConversation(messages, "p1")

		require.Len(t, conversation, 2)
		assert.Equal(t, "user", conversation[0].Role)
		assert.Equal(t, "assistant", conversation[1].Role)
	})

	t.Run("Consecutive same-role turns are merged", func(t *testing.T) {
		messages := []*entity.DiscussionMessage{
			{PlayerID: "p2", PlayerName: "Agent-B", Message: "first"},
			{PlayerID: "p3", PlayerName: "Agent-C", Message: "second"},
		}

		conversation := formatConversation(messages, "p1")

		require.Len(t, conversation, 1)
		assert.Contains(t, conversation[0].Content, "Agent-B: first")
		assert.Contains(t, conversation[0].Content, "Agent-C: second")
	})

	t.Run("Leading assistant turn is dropped", func(t *testing.T) {
		messages := []*entity.DiscussionMessage{
			{PlayerID: "p1", PlayerName: "Agent-A", Message: "mine first"},
			{PlayerID: "p2", PlayerName: "Agent-B", Message: "then theirs"},
		}

		conversation := formatConversation(messages, "p1")

		require.NotEmpty(t, conversation)
		assert.Equal(t, "user", conversation[0].Role)
	})

	t.Run("Empty history seeds a user turn", func(t *testing.T) {
		conversation := formatConversation(nil, "p1")

		require.Len(t, conversation, 1)
		assert.Equal(t, "user", conversation[0].Role)
	})
}

func TestContext_Request(t *testing.T) {
	t.Run("Corrections and prohibited phrases are rendered into the system prompt", func(t *testing.T) {
		agentContext := &Context{
			Player:            &entity.Player{ID: "p1", Name: "Agent-A"},
			SystemPrompt:      "base prompt",
			GameState:         "state",
			PhaseInstruction:  "vote now",
			ProhibitedPhrases: []string{"i think agent-b"},
			Corrections:       []string{"keep it shorter"},
		}

		request := agentContext.Request()

		assert.Contains(t, request.System, "base prompt")
		assert.Contains(t, request.System, "vote now")
		assert.Contains(t, request.System, "i think agent-b")
		assert.Contains(t, request.System, "keep it shorter")
	})
}
