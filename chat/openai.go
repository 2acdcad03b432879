package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"

	"cognikit/internal/config"
)

// AzureOpenAIProvider generates completions from an Azure OpenAI
// deployment.
type AzureOpenAIProvider struct {
	cfg    config.ChatConfig
	client *openai.Client
}

func (p *AzureOpenAIProvider) Prepare() error {
	if p.cfg.OpenAIEndpoint == "" || p.cfg.OpenAIKey == "" {
		return ErrFailedPreparation
	}

	clientCfg := openai.DefaultAzureConfig(p.cfg.OpenAIKey, p.cfg.OpenAIEndpoint)
	if p.cfg.OpenAIAPIVersion != "" {
		clientCfg.APIVersion = p.cfg.OpenAIAPIVersion
	}
	p.client = openai.NewClientWithConfig(clientCfg)
	return nil
}

func (p *AzureOpenAIProvider) request(messages []Message, cfg Config) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return openai.ChatCompletionRequest{
		Model:            p.cfg.OpenAIDeployment,
		Messages:         msgs,
		Temperature:      float32(cfg.Temperature),
		MaxTokens:        cfg.MaxTokens,
		TopP:             float32(cfg.TopP),
		FrequencyPenalty: float32(cfg.FrequencyPenalty),
		PresencePenalty:  float32(cfg.PresencePenalty),
	}
}

func (p *AzureOpenAIProvider) Complete(ctx context.Context, messages []Message, cfg Config) (*Completion, error) {
	if p.client == nil {
		return nil, errors.New("client not initialized, call Prepare() first")
	}

	resp, err := p.client.CreateChatCompletion(ctx, p.request(messages, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to generate completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("received empty response from API")
	}

	return &Completion{
		Content:      resp.Choices[0].Message.Content,
		FinishReason: string(resp.Choices[0].FinishReason),
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func (p *AzureOpenAIProvider) Stream(ctx context.Context, messages []Message, cfg Config, fn func(delta string)) (*Completion, error) {
	if p.client == nil {
		return nil, errors.New("client not initialized, call Prepare() first")
	}

	req := p.request(messages, cfg)
	req.Stream = true
	req.StreamOptions = &openai.StreamOptions{IncludeUsage: true}

	stream, err := p.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to start completion stream: %w", err)
	}
	defer stream.Close()

	var (
		content strings.Builder
		result  Completion
	)
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("stream receive failed: %w", err)
		}

		if len(chunk.Choices) > 0 {
			if delta := chunk.Choices[0].Delta.Content; delta != "" {
				content.WriteString(delta)
				if fn != nil {
					fn(delta)
				}
			}
			if chunk.Choices[0].FinishReason != "" {
				result.FinishReason = string(chunk.Choices[0].FinishReason)
			}
		}
		// Usage arrives in a trailing chunk with no choices.
		if chunk.Usage != nil {
			result.Usage = Usage{
				PromptTokens:     chunk.Usage.PromptTokens,
				CompletionTokens: chunk.Usage.CompletionTokens,
				TotalTokens:      chunk.Usage.TotalTokens,
			}
		}
	}

	result.Content = content.String()
	return &result, nil
}

func (p *AzureOpenAIProvider) String() string {
	return fmt.Sprintf("openai-%s", p.cfg.OpenAIDeployment)
}
