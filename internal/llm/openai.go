package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider generates completions through the OpenAI chat API or any
// compatible endpoint.
type OpenAIProvider struct {
	client *openai.Client
	apiKey string
	model  string
}

// NewOpenAIProvider creates a provider using apiKey. An empty model falls
// back to gpt-4o-mini.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o-mini"
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		apiKey: apiKey,
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Model() string { return p.model }

// Available only checks that a plausible key is configured. The first real
// request surfaces auth errors; probing the API here would spend quota.
func (p *OpenAIProvider) Available(ctx context.Context) bool {
	return len(p.apiKey) > 10
}

// Generate runs a chat completion at low temperature so classification
// verdicts stay consistent across calls.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	var messages []openai.ChatCompletionMessage
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: 0.1,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
