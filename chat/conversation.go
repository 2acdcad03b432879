package chat

import "fmt"

// DefaultMaxHistory is how many user/assistant turns a conversation
// keeps before trimming.
const DefaultMaxHistory = 10

// Conversation tracks message history and token usage for one chat
// session. The system prompt is always kept; older turns are dropped
// once the history cap is reached.
type Conversation struct {
	system      string
	maxHistory  int
	messages    []Message
	totalTokens int
}

func NewConversation(systemPrompt string, maxHistory int) *Conversation {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Conversation{
		system:     systemPrompt,
		maxHistory: maxHistory,
	}
}

func (c *Conversation) AddUser(content string) {
	c.messages = append(c.messages, Message{Role: RoleUser, Content: content})
	c.trim()
}

func (c *Conversation) AddAssistant(content string) {
	c.messages = append(c.messages, Message{Role: RoleAssistant, Content: content})
	c.trim()
}

func (c *Conversation) trim() {
	if len(c.messages) > c.maxHistory {
		c.messages = c.messages[len(c.messages)-c.maxHistory:]
	}
}

// Messages returns the system prompt followed by a copy of the
// retained history.
func (c *Conversation) Messages() []Message {
	out := make([]Message, 0, len(c.messages)+1)
	if c.system != "" {
		out = append(out, Message{Role: RoleSystem, Content: c.system})
	}
	return append(out, c.messages...)
}

func (c *Conversation) AddTokens(n int) {
	c.totalTokens += n
}

func (c *Conversation) TotalTokens() int {
	return c.totalTokens
}

// Summary reports turn counts and token usage.
func (c *Conversation) Summary() string {
	var users, assistants int
	for _, m := range c.messages {
		switch m.Role {
		case RoleUser:
			users++
		case RoleAssistant:
			assistants++
		}
	}
	return fmt.Sprintf("Messages: %d user, %d assistant | Total tokens: %d", users, assistants, c.totalTokens)
}
