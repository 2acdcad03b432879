// Package chat provides chat completion providers behind a common
// interface, with conversation history management.
package chat

import (
	"context"
	"errors"

	"cognikit/internal/config"
)

var ErrFailedPreparation = errors.New("provider has failed to prepare")

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string
	Content string
}

// Config holds sampling parameters for a completion request.
type Config struct {
	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
	SystemPrompt     string
}

// DefaultConfig returns the sampling defaults used by the sample
// binaries.
func DefaultConfig() Config {
	return Config{
		Temperature: 0.7,
		MaxTokens:   1000,
		TopP:        0.95,
		SystemPrompt: "You are a helpful, knowledgeable assistant. You provide accurate, " +
			"practical information and always maintain a friendly, professional tone. " +
			"Keep responses concise but comprehensive, and ask clarifying questions " +
			"when needed to provide the best help possible.",
	}
}

// Usage is the token accounting reported by a provider.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is a finished assistant response.
type Completion struct {
	Content      string
	FinishReason string
	Usage        Usage
}

// Provider generates chat completions. Prepare must be called before
// the first request.
type Provider interface {
	Prepare() error
	Complete(ctx context.Context, messages []Message, cfg Config) (*Completion, error)
	// Stream delivers the response incrementally through fn and
	// returns the assembled completion.
	Stream(ctx context.Context, messages []Message, cfg Config, fn func(delta string)) (*Completion, error)
	String() string
}

type ProviderType string

const (
	OpenAIProviderType    ProviderType = "openai"
	AnthropicProviderType ProviderType = "anthropic"
)

func NewProvider(providerType ProviderType, cfg config.ChatConfig) Provider {
	switch providerType {
	case OpenAIProviderType:
		return &AzureOpenAIProvider{cfg: cfg}
	case AnthropicProviderType:
		return &AnthropicProvider{cfg: cfg}
	}

	return nil
}
