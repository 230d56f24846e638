package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/serisow/abstractor/schema"
)

// ValidateStepImpl reconciles the model output with the schema: every schema
// field is present in the result afterwards (missing ones as explicit null),
// and textual values for number-declared fields are coerced best-effort. A
// failed coercion leaves the original value untouched, silently. Extraneous
// model fields are left in place.
//
// No-op whenever an upstream error marker is already set.
type ValidateStepImpl struct {
	StrictValidation bool
	logger           *slog.Logger
}

func (s *ValidateStepImpl) Execute(ctx context.Context, state *State) error {
	if state.Err != "" {
		return nil
	}

	for _, field := range state.Schema.Fields() {
		value, present := state.Result[field.Name]
		if !present {
			state.Result[field.Name] = nil
			continue
		}
		if value == nil {
			continue
		}

		if field.Type == schema.TypeNumber {
			if str, ok := value.(string); ok {
				parsed, err := strconv.ParseFloat(str, 64)
				if err != nil {
					// Keep as is if conversion fails.
					continue
				}
				if parsed == math.Trunc(parsed) && !math.IsInf(parsed, 0) {
					state.Result[field.Name] = int(parsed)
				} else {
					state.Result[field.Name] = parsed
				}
			}
		}
	}

	if s.StrictValidation {
		if err := state.Schema.ValidateResult(state.Result); err != nil {
			s.logger.Warn("Strict schema validation failed",
				slog.String("error", err.Error()))
			state.Err = fmt.Sprintf("Extracted data failed schema validation: %v", err)
		}
	}

	return nil
}

func (s *ValidateStepImpl) GetType() string {
	return "validate"
}
