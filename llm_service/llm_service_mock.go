package llm_service

import (
	"context"
)

type MockLLMService struct {
	CallLLMFunc func(ctx context.Context, cfg ServiceConfig, prompt string) (string, error)
}

func (m *MockLLMService) CallLLM(ctx context.Context, cfg ServiceConfig, prompt string) (string, error) {
	if m.CallLLMFunc != nil {
		return m.CallLLMFunc(ctx, cfg, prompt)
	}
	return "mock response", nil
}
