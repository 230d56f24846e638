package pipeline

import (
	"github.com/serisow/abstractor/schema"
)

// State is the mutable record threaded through the pipeline stages. Exactly
// one State exists per extraction request; it is owned by that request's Run
// call and discarded when Run returns.
type State struct {
	DocumentText  string
	Schema        schema.Schema
	ProcessedText string
	SchemaPrompt  string
	Result        map[string]interface{}
	Err           string
}

func NewState(documentText string, s schema.Schema) *State {
	return &State{
		DocumentText: documentText,
		Schema:       s,
		Result:       make(map[string]interface{}),
	}
}
