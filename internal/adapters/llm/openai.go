package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pumpbrain/pumpbrain/internal/core/domain"
	openai "github.com/sashabaranov/go-openai"
)

// Defaults target Anthropic's OpenAI-compatible chat completions endpoint.
const (
	DefaultBaseURL   = "https://api.anthropic.com/v1"
	DefaultModel     = "claude-3-5-sonnet-20240620"
	DefaultMaxTokens = 800
)

// OpenAIGenerator implements domain.TextGenerator over any OpenAI-compatible API.
type OpenAIGenerator struct {
	client    *openai.Client
	model     string
	maxTokens int
}

type Options struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

func NewOpenAIGenerator(opts Options) *OpenAIGenerator {
	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = DefaultBaseURL
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return &OpenAIGenerator{
		client:    openai.NewClientWithConfig(cfg),
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
	}
}

// Generate sends prompt as a single user message and returns the first choice.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("chat completion: status %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, domain.ErrUpstream)
		}
		return "", fmt.Errorf("chat completion: %v: %w", err, domain.ErrUpstream)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices: %w", domain.ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}
