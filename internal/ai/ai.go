package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/coachpilot/coachpilot-golang/internal/config"
	"github.com/coachpilot/coachpilot-golang/internal/logger"
)

// Generator turns a prompt into insight text. The production implementation
// calls the external text-generation service; tests substitute a fake.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const systemPrompt = "You are a coaching assistant. Summarize the coach's client data into " +
	"3-5 short, actionable insights. Be specific and concise."

// defaultPrompt is used when the caller supplies no prompt of their own.
const defaultPrompt = "Generate an updated insight summary for my current client roster."

// OpenAIGenerator calls the OpenAI chat-completions endpoint. One request
// per Generate call, no retries: a failed call is surfaced immediately so
// the caller's ledger stays untouched.
type OpenAIGenerator struct {
	httpClient *http.Client
	log        *logger.Logger
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
}

func NewOpenAIGenerator(cfg config.OpenAIConfig, log *logger.Logger) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key required")
	}
	return &OpenAIGenerator{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With("service", "OpenAIGenerator"),
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate produces insight text for the given prompt, trimmed of
// surrounding whitespace. The max-token budget is a cost control passed
// through to the service on every call.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		prompt = defaultPrompt
	}

	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generation response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode generation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		g.log.Warn("generation service error", "status", resp.StatusCode)
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("generation service: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("generation service returned http %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("generation service returned no choices")
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("generation service returned empty content")
	}
	return text, nil
}
