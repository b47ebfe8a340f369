package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// --- Local types for OpenAI-compatible chat APIs ---

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

// BaseProvider implements common functionality for OpenAI-compatible APIs
type BaseProvider struct {
	config ProviderConfig
	client *http.Client
}

// NewBaseProvider creates a new base provider
func NewBaseProvider(config ProviderConfig) *BaseProvider {
	if config.MaxContentLen == 0 {
		config.MaxContentLen = 12000 // enrichment prompts are small
	}
	return &BaseProvider{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *BaseProvider) Name() string {
	return p.config.Name
}

// GenerateCompletion sends one prompt and returns the raw completion text
func (p *BaseProvider) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	if len(prompt) > p.config.MaxContentLen {
		log.Printf("[%s] Truncating prompt from %d to %d chars", p.config.Name, len(prompt), p.config.MaxContentLen)
		prompt = prompt[:p.config.MaxContentLen]
	}

	reqBody := chatRequest{
		Model: p.config.TextModel,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.config.BaseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("api error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	log.Printf("[%s] Completion length: %d", p.config.Name, len(content))
	return content, nil
}

// CleanJSON strips markdown code fences models wrap around JSON output
func CleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
