package llm

import (
	"context"
	"fmt"

	"github.com/fluenta/tutor-be/internal/delivery/http/entity"
	"google.golang.org/genai"
)

// GeminiClient is the alternative decision backend using the Gemini API.
type GeminiClient struct {
	Model  string
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string, model string) (*GeminiClient, error) {
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client init: %w", err)
	}

	return &GeminiClient{
		Model:  model,
		client: client,
	}, nil
}

func (c *GeminiClient) GenerateDecision(ctx context.Context, req DecisionRequest) (*entity.TeacherDecision, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not initialized")
	}

	resp, err := c.client.Models.GenerateContent(
		ctx,
		c.Model,
		genai.Text(flattenDecisionPrompt(req)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini decision error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini returned empty response")
	}

	return parseDecision(text)
}

func (c *GeminiClient) GenerateNarration(ctx context.Context, req NarrationRequest) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("client not initialized")
	}

	prompt := buildNarrationSystem(req) + "\n\n" + buildNarrationUser(req)

	resp, err := c.client.Models.GenerateContent(ctx, c.Model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini narration error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty response")
	}

	return text, nil
}
