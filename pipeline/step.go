package pipeline

import "context"

// Step is one stage of the extraction pipeline. Stages run strictly in order
// with no branching or retries between them; a stage signals an unrecoverable
// failure by returning an error, or a downgraded one by marking the state.
type Step interface {
	Execute(ctx context.Context, state *State) error

	GetType() string
}
