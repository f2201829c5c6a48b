package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"merchsync/internal/config"
	"merchsync/internal/errs"
	"merchsync/internal/logger"
)

// Optimizer is the AI copywriting capability: optimize(content,
// marketplace) -> content. The model behind it is opaque to the rest of
// the pipeline.
type Optimizer struct {
	// BaseURL is overridable in tests.
	BaseURL string

	config     *config.Config
	logger     *logger.Logger
	httpClient *http.Client
}

type openAIRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []choice `json:"choices"`
}

type choice struct {
	Message message `json:"message"`
}

func New(cfg *config.Config, logger *logger.Logger) *Optimizer {
	return &Optimizer{
		BaseURL: "https://api.openai.com",
		config:  cfg,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// OptimizeContent rewrites listing copy for a target marketplace.
func (o *Optimizer) OptimizeContent(content, marketplace string) (string, error) {
	prompt := fmt.Sprintf(`You are an expert e-commerce copywriter. Rewrite this product listing content for the %s marketplace.

Content: %s

Requirements:
- Keep factual claims unchanged
- Match the tone and conventions buyers expect on %s
- Stay concise and keyword-rich

Return ONLY the rewritten content, no explanations.`, marketplace, content, marketplace)

	return o.complete(prompt)
}

// OptimizeTitle rewrites a product title for a target marketplace.
func (o *Optimizer) OptimizeTitle(title, marketplace string) (string, error) {
	prompt := fmt.Sprintf(`You are an expert e-commerce SEO specialist. Optimize this product title for the %s marketplace.

Title: %s

Requirements:
- Keep under 80 characters
- Include primary keywords
- Maintain brand appeal

Return ONLY the optimized title, no explanations.`, marketplace, title)

	return o.complete(prompt)
}

func (o *Optimizer) complete(prompt string) (string, error) {
	if o.config.OpenAIAPIKey == "" {
		return "", &errs.ConfigurationError{Platform: "openai", Reason: "OPENAI_API_KEY must be set"}
	}

	reqBody := openAIRequest{
		Model:       "gpt-4o-mini",
		Messages:    []message{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   500,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, o.BaseURL+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.config.OpenAIAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &errs.UpstreamError{Platform: "openai", Status: resp.StatusCode, Message: string(body)}
	}

	var aiResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&aiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(aiResp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	return strings.TrimSpace(aiResp.Choices[0].Message.Content), nil
}
