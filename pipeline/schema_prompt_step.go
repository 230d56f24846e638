package pipeline

import (
	"context"
	"log/slog"
)

// SchemaPromptStepImpl renders the schema into its canonical indented text
// form for inclusion in the model prompt. Always succeeds.
type SchemaPromptStepImpl struct {
	logger *slog.Logger
}

func (s *SchemaPromptStepImpl) Execute(ctx context.Context, state *State) error {
	state.SchemaPrompt = state.Schema.PromptRepresentation()
	s.logger.Debug("Rendered schema prompt",
		slog.Int("fields", state.Schema.Len()))
	return nil
}

func (s *SchemaPromptStepImpl) GetType() string {
	return "schema_prompt"
}
