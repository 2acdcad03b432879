package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"cognikit/internal/config"
)

// AnthropicProvider generates completions from the Anthropic Messages
// API. Streaming is emulated by delivering the full response in one
// callback.
type AnthropicProvider struct {
	cfg    config.ChatConfig
	client *anthropic.Client
}

func (p *AnthropicProvider) Prepare() error {
	if p.cfg.AnthropicKey == "" {
		return ErrFailedPreparation
	}

	p.client = anthropic.NewClient(option.WithAPIKey(p.cfg.AnthropicKey))
	return nil
}

func (p *AnthropicProvider) Complete(ctx context.Context, messages []Message, cfg Config) (*Completion, error) {
	if p.client == nil {
		return nil, errors.New("client not initialized, call Prepare() first")
	}

	var (
		system string
		turns  []anthropic.MessageParam
	)
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = m.Content
		case RoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	if len(turns) == 0 {
		return nil, errors.New("empty input provided")
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.F(anthropic.ModelClaude3_5HaikuLatest),
		MaxTokens:   anthropic.Int(int64(cfg.MaxTokens)),
		Temperature: anthropic.F(cfg.Temperature),
		Messages:    anthropic.F(turns),
	}
	if system != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(system),
		})
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to generate completion: %w", err)
	}
	if len(resp.Content) == 0 {
		return nil, errors.New("received empty response from API")
	}

	usage := Usage{
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens

	return &Completion{
		Content:      resp.Content[0].Text,
		FinishReason: string(resp.StopReason),
		Usage:        usage,
	}, nil
}

func (p *AnthropicProvider) Stream(ctx context.Context, messages []Message, cfg Config, fn func(delta string)) (*Completion, error) {
	completion, err := p.Complete(ctx, messages, cfg)
	if err != nil {
		return nil, err
	}
	if fn != nil {
		fn(completion.Content)
	}
	return completion, nil
}

func (p *AnthropicProvider) String() string {
	return "anthropic-claude"
}
