package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"autodialer/internal/config"
)

// GeminiClient talks to Google's Gemini API via the official SDK.
//
// Construction succeeds without an API key; every call then returns
// ErrNotConfigured so callers can surface it per request.
type GeminiClient struct {
	cfg    config.GeminiConfig
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.APIKey == "" {
		return &GeminiClient{cfg: cfg}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client init failed: %w", err)
	}
	return &GeminiClient{cfg: cfg, client: client}, nil
}

func (c *GeminiClient) Configured() bool { return c.client != nil }

func (c *GeminiClient) ParseCallCommand(ctx context.Context, input string) (Command, error) {
	if !c.Configured() {
		return Command{}, ErrNotConfigured
	}

	text, err := c.generate(ctx, parseCommandPrompt+input, 0.3, 500)
	if err != nil {
		return Command{}, err
	}
	return decodeCommand(text)
}

func (c *GeminiClient) GenerateArticle(ctx context.Context, title, details string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	var b strings.Builder
	b.WriteString(articlePromptHeader)
	b.WriteString("Write a comprehensive, professional blog post about: ")
	b.WriteString(title)
	if strings.TrimSpace(details) != "" {
		b.WriteString("\n\nAdditional details: ")
		b.WriteString(details)
	}
	b.WriteString(articlePromptFooter)

	return c.generate(ctx, b.String(), 0.7, 8000)
}

func (c *GeminiClient) generate(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx,
		c.cfg.Model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](temperature),
			MaxOutputTokens: maxTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return text, nil
}
