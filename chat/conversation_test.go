package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationMessagesIncludeSystemPrompt(t *testing.T) {
	conv := NewConversation("be helpful", 10)
	conv.AddUser("hello")
	conv.AddAssistant("hi there")

	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, RoleSystem, msgs[0].Role)
	assert.Equal(t, "be helpful", msgs[0].Content)
	assert.Equal(t, RoleUser, msgs[1].Role)
	assert.Equal(t, RoleAssistant, msgs[2].Role)
}

func TestConversationWithoutSystemPrompt(t *testing.T) {
	conv := NewConversation("", 10)
	conv.AddUser("hello")

	msgs := conv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleUser, msgs[0].Role)
}

func TestConversationTrimsHistory(t *testing.T) {
	conv := NewConversation("system", 4)
	for i := 0; i < 10; i++ {
		conv.AddUser("question")
		conv.AddAssistant("answer")
	}

	msgs := conv.Messages()
	// system prompt plus the capped history
	require.Len(t, msgs, 5)
	assert.Equal(t, RoleSystem, msgs[0].Role)
	// the oldest retained turn is a user message
	assert.Equal(t, RoleUser, msgs[1].Role)
	assert.Equal(t, RoleAssistant, msgs[4].Role)
}

func TestConversationDefaultsMaxHistory(t *testing.T) {
	conv := NewConversation("system", 0)
	for i := 0; i < 30; i++ {
		conv.AddUser("q")
	}
	assert.Len(t, conv.Messages(), DefaultMaxHistory+1)
}

func TestConversationTokenAccounting(t *testing.T) {
	conv := NewConversation("system", 10)
	assert.Equal(t, 0, conv.TotalTokens())
	conv.AddTokens(120)
	conv.AddTokens(80)
	assert.Equal(t, 200, conv.TotalTokens())
}

func TestConversationSummary(t *testing.T) {
	conv := NewConversation("system", 10)
	conv.AddUser("one")
	conv.AddAssistant("two")
	conv.AddUser("three")
	conv.AddTokens(42)

	assert.Equal(t, "Messages: 2 user, 1 assistant | Total tokens: 42", conv.Summary())
}

func TestMessagesReturnsCopy(t *testing.T) {
	conv := NewConversation("system", 10)
	conv.AddUser("original")

	msgs := conv.Messages()
	msgs[1].Content = "mutated"

	assert.Equal(t, "original", conv.Messages()[1].Content)
}
