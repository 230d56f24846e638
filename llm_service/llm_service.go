package llm_service

import (
	"context"
)

// ServiceConfig carries the explicit per-process model configuration. It is
// assembled once from config.Config and passed into the pipeline constructor;
// services never read credentials ambiently.
type ServiceConfig struct {
	APIURL    string
	APIKey    string
	ModelName string
	MaxTokens int
}

// LLMService is the single capability contract the extraction pipeline
// depends on: one synchronous completion call. Callers wishing to bound
// latency impose a deadline through ctx.
type LLMService interface {
	CallLLM(ctx context.Context, cfg ServiceConfig, prompt string) (string, error)
}
