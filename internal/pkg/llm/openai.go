package llm

import (
	"context"
	"fmt"

	"github.com/fluenta/tutor-be/internal/delivery/http/entity"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	APIKey  string
	BaseURL string
	Model   string
	client  *openai.Client
}

func NewOpenAIClient(apiKey string, model string, baseURL string) *OpenAIClient {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &OpenAIClient{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: baseURL,
		client:  openai.NewClientWithConfig(config),
	}
}

func (c *OpenAIClient) GenerateDecision(ctx context.Context, req DecisionRequest) (*entity.TeacherDecision, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not initialized")
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: buildDecisionSystem(req),
		},
	}

	for _, msg := range req.History {
		role := openai.ChatMessageRoleAssistant
		if msg.Role == entity.RoleLearner {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Text,
		})
	}

	if note := buildRetryContext(req.PendingRetry); note != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: note,
		})
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       c.Model,
			Messages:    messages,
			Temperature: 0.3,
			TopP:        0.95,
			MaxTokens:   2048,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("openai decision error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return nil, fmt.Errorf("openai returned empty response")
	}

	return parseDecision(text)
}

// GenerateNarration generates a plain text in-character sentence (no JSON formatting)
func (c *OpenAIClient) GenerateNarration(ctx context.Context, req NarrationRequest) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("client not initialized")
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.Model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: buildNarrationSystem(req),
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: buildNarrationUser(req),
				},
			},
			Temperature: 0.7,
			TopP:        0.95,
			MaxTokens:   256,
			// No ResponseFormat - allow plain text response
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai narration error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return "", fmt.Errorf("openai returned empty response")
	}

	return text, nil
}
