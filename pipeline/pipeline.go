// Package pipeline implements the four-stage extraction flow that turns raw
// document text plus a field schema into a schema-conformant result via a
// language model: preprocess → schema prompt → model invocation → validate &
// coerce. Control flow never branches or loops, so the stages are held as a
// plain ordered list rather than any graph machinery.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/serisow/abstractor/llm_service"
	"github.com/serisow/abstractor/schema"
)

type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Options carries the per-process knobs the pipeline is constructed with.
// The model configuration is passed in explicitly; nothing is read from the
// environment at request time.
type Options struct {
	Service          llm_service.LLMService
	ServiceConfig    llm_service.ServiceConfig
	StrictValidation bool
	Logger           *slog.Logger
}

func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		steps: []Step{
			&PreprocessStepImpl{logger: logger},
			&SchemaPromptStepImpl{logger: logger},
			&LLMStepImpl{
				LLMServiceInstance: opts.Service,
				ServiceConfig:      opts.ServiceConfig,
				logger:             logger,
			},
			&ValidateStepImpl{
				StrictValidation: opts.StrictValidation,
				logger:           logger,
			},
		},
		logger: logger,
	}
}

// Run executes the stages in order on a fresh State and returns either the
// coerced result mapping or an error envelope {"error": <message>} embedding
// the upstream cause. Run never panics past its own boundary; anything
// escaping a stage is caught and rewrapped into the same envelope shape.
func (p *Pipeline) Run(ctx context.Context, documentText string, s schema.Schema) (result map[string]interface{}) {
	state := NewState(documentText, s)

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Extraction pipeline panicked",
				slog.Any("panic", r))
			result = map[string]interface{}{"error": fmt.Sprintf("Extraction flow failed: %v", r)}
		}
	}()

	for _, step := range p.steps {
		p.logger.Debug("Executing pipeline stage",
			slog.String("stage", step.GetType()))
		if err := step.Execute(ctx, state); err != nil {
			p.logger.Error("Pipeline stage failed",
				slog.String("stage", step.GetType()),
				slog.String("error", err.Error()))
			return map[string]interface{}{"error": fmt.Sprintf("Extraction flow failed: %v", err)}
		}
	}

	if state.Err != "" {
		return map[string]interface{}{"error": state.Err}
	}
	return state.Result
}
