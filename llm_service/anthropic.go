package llm_service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type AnthropicService struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func NewAnthropicService(logger *slog.Logger, timeout time.Duration) *AnthropicService {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &AnthropicService{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (s *AnthropicService) CallLLM(ctx context.Context, cfg ServiceConfig, prompt string) (string, error) {
	maxRetries := 3
	retryDelay := 5 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		response, err := s.callAnthropic(ctx, cfg, prompt)
		if err == nil {
			return response, nil
		}

		if attempt == maxRetries {
			s.logger.Error("Error calling Anthropic API after multiple attempts",
				slog.Int("attempts", maxRetries),
				slog.String("error", err.Error()))
			return "", fmt.Errorf("failed to call Anthropic API after %d attempts: %w", maxRetries, err)
		}

		s.logger.Warn("Attempt failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("retry_delay", retryDelay),
			slog.String("error", err.Error()))
		time.Sleep(retryDelay)
	}

	return "", fmt.Errorf("failed to call Anthropic API after exhausting all retry attempts")
}

func (s *AnthropicService) callAnthropic(ctx context.Context, cfg ServiceConfig, prompt string) (string, error) {
	if cfg.APIURL == "" {
		return "", fmt.Errorf("api_url not set in service config")
	}
	if cfg.APIKey == "" {
		return "", fmt.Errorf("api_key not set in service config")
	}
	if cfg.ModelName == "" {
		return "", fmt.Errorf("model_name not set in service config")
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"model": cfg.ModelName,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens": maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("error marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", cfg.APIURL, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("x-api-key", cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("error decoding response: %w", err)
	}

	content, ok := result["content"].([]interface{})
	if !ok || len(content) == 0 {
		return "", fmt.Errorf("unexpected response format from Anthropic API")
	}

	firstContent, ok := content[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected content format in Anthropic API response")
	}

	text, ok := firstContent["text"].(string)
	if !ok {
		return "", fmt.Errorf("text not found in Anthropic API response")
	}

	return text, nil
}
