package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/serisow/abstractor/llm_service"
)

const extractionPromptTemplate = `You are a document information extraction expert. Your task is to extract structured information from the document text according to the specified schema.

# Document Text:
%s

# Target Schema:
%s

# Instructions:
1. Extract all fields defined in the schema from the document.
2. For each field, provide the exact value found in the document.
3. Maintain the correct data type for each field as defined in the schema.
4. If a field cannot be found in the document, use null for that field.
5. Return ONLY a valid JSON object matching the schema, nothing else.

# Extracted JSON (ensure valid JSON format):`

// LLMStepImpl submits the populated prompt template to the language model and
// parses the reply as JSON, fence-aware. A reply that is not valid JSON does
// NOT fail the stage: the state is marked with an error descriptor and a
// placeholder result, and the pipeline proceeds (validation is a no-op
// pass-through whenever the marker is set).
type LLMStepImpl struct {
	LLMServiceInstance llm_service.LLMService
	ServiceConfig      llm_service.ServiceConfig
	logger             *slog.Logger
}

func (s *LLMStepImpl) Execute(ctx context.Context, state *State) error {
	if s.LLMServiceInstance == nil {
		return fmt.Errorf("LLMService is not initialized for the extraction step")
	}

	prompt := fmt.Sprintf(extractionPromptTemplate, state.ProcessedText, state.SchemaPrompt)

	s.logger.Debug("Calling LLM service",
		slog.String("model", s.ServiceConfig.ModelName),
		slog.Int("prompt_length", len(prompt)))

	reply, err := s.LLMServiceInstance.CallLLM(ctx, s.ServiceConfig, prompt)
	if err != nil {
		return fmt.Errorf("error calling LLM service: %w", err)
	}

	jsonText := extractJSONBlock(reply)

	var extracted map[string]interface{}
	if err := json.Unmarshal([]byte(jsonText), &extracted); err != nil {
		s.logger.Warn("LLM reply is not valid JSON",
			slog.String("error", err.Error()),
			slog.Int("reply_length", len(reply)))
		state.Err = fmt.Sprintf("Failed to parse LLM response as JSON: %v", err)
		state.Result = map[string]interface{}{"error": "Failed to extract structured data"}
		return nil
	}

	state.Result = extracted
	return nil
}

func (s *LLMStepImpl) GetType() string {
	return "llm_extract"
}
