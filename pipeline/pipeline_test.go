package pipeline

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/serisow/abstractor/llm_service"
	"github.com/serisow/abstractor/schema"
)

func mustSchema(t *testing.T, raw string) schema.Schema {
	t.Helper()
	s, err := schema.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Failed to parse schema: %v", err)
	}
	return s
}

func newTestPipeline(reply string, replyErr error) *Pipeline {
	return New(Options{
		Service: &llm_service.MockLLMService{
			CallLLMFunc: func(ctx context.Context, cfg llm_service.ServiceConfig, prompt string) (string, error) {
				return reply, replyErr
			},
		},
	})
}

func TestRunHappyPath(t *testing.T) {
	s := mustSchema(t, `{"name": "string", "age": "number"}`)
	p := newTestPipeline(`{"name": "Ada Lovelace", "age": 36}`, nil)

	result := p.Run(context.Background(), "Ada Lovelace, 36 years old.", s)

	expected := map[string]interface{}{"name": "Ada Lovelace", "age": float64(36)}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestRunFencedReplyMatchesUnfenced(t *testing.T) {
	s := mustSchema(t, `{"name": "string"}`)
	replies := []string{
		`{"name": "Ada"}`,
		"```json\n{\"name\": \"Ada\"}\n```",
		"```\n{\"name\": \"Ada\"}\n```",
		"Sure, here is the extracted data:\n```json\n{\"name\": \"Ada\"}\n```",
	}

	var results []map[string]interface{}
	for _, reply := range replies {
		p := newTestPipeline(reply, nil)
		results = append(results, p.Run(context.Background(), "doc", s))
	}

	for i := 1; i < len(results); i++ {
		if !reflect.DeepEqual(results[0], results[i]) {
			t.Errorf("Reply variant %d produced %v, expected %v", i, results[i], results[0])
		}
	}
}

func TestRunMissingFieldBecomesNull(t *testing.T) {
	s := mustSchema(t, `{"name": "string", "phone": "string"}`)
	p := newTestPipeline(`{"name": "Ada"}`, nil)

	result := p.Run(context.Background(), "doc", s)

	phone, present := result["phone"]
	if !present {
		t.Fatal("Expected missing schema field to be present in result")
	}
	if phone != nil {
		t.Errorf("Expected null for missing field, got %v", phone)
	}
}

func TestRunResultCoversSchemaKeys(t *testing.T) {
	s := mustSchema(t, `{"a": "string", "b": "number", "c": "boolean", "d": "date"}`)
	p := newTestPipeline(`{"a": "x", "extra": "kept"}`, nil)

	result := p.Run(context.Background(), "doc", s)

	for _, f := range s.Fields() {
		if _, present := result[f.Name]; !present {
			t.Errorf("Expected schema field %q in result", f.Name)
		}
	}
	if result["extra"] != "kept" {
		t.Errorf("Expected extraneous field to be kept, got %v", result["extra"])
	}
}

func TestRunNumberCoercion(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		expected interface{}
	}{
		{"integer string", `{"amount": "35"}`, 35},
		{"decimal string", `{"amount": "35.5"}`, 35.5},
		{"non-numeric string kept", `{"amount": "thirty-five"}`, "thirty-five"},
		{"native number untouched", `{"amount": 35.5}`, 35.5},
		{"null untouched", `{"amount": null}`, nil},
	}

	s := mustSchema(t, `{"amount": "number"}`)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(tt.reply, nil)
			result := p.Run(context.Background(), "doc", s)
			if !reflect.DeepEqual(result["amount"], tt.expected) {
				t.Errorf("Expected %v (%T), got %v (%T)", tt.expected, tt.expected, result["amount"], result["amount"])
			}
		})
	}
}

func TestRunInvalidJSONReply(t *testing.T) {
	s := mustSchema(t, `{"name": "string"}`)
	p := newTestPipeline("I could not find any structured data in this document.", nil)

	result := p.Run(context.Background(), "doc", s)

	msg, ok := result["error"].(string)
	if !ok {
		t.Fatalf("Expected an error envelope, got %v", result)
	}
	if !strings.Contains(msg, "Failed to parse LLM response as JSON") {
		t.Errorf("Expected parse-failure message, got %q", msg)
	}
}

func TestRunLLMServiceError(t *testing.T) {
	s := mustSchema(t, `{"name": "string"}`)
	p := newTestPipeline("", errors.New("connection refused"))

	result := p.Run(context.Background(), "doc", s)

	msg, ok := result["error"].(string)
	if !ok {
		t.Fatalf("Expected an error envelope, got %v", result)
	}
	if !strings.Contains(msg, "Extraction flow failed") {
		t.Errorf("Expected flow-failure prefix, got %q", msg)
	}
	if !strings.Contains(msg, "connection refused") {
		t.Errorf("Expected upstream cause in message, got %q", msg)
	}
}

func TestRunMissingService(t *testing.T) {
	s := mustSchema(t, `{"name": "string"}`)
	p := New(Options{})

	result := p.Run(context.Background(), "doc", s)

	msg, ok := result["error"].(string)
	if !ok {
		t.Fatalf("Expected an error envelope, got %v", result)
	}
	if !strings.Contains(msg, "Extraction flow failed") {
		t.Errorf("Expected flow-failure prefix, got %q", msg)
	}
}

func TestRunRecoversPanics(t *testing.T) {
	s := mustSchema(t, `{"name": "string"}`)
	p := New(Options{
		Service: &llm_service.MockLLMService{
			CallLLMFunc: func(ctx context.Context, cfg llm_service.ServiceConfig, prompt string) (string, error) {
				panic("model client blew up")
			},
		},
	})

	result := p.Run(context.Background(), "doc", s)

	msg, ok := result["error"].(string)
	if !ok {
		t.Fatalf("Expected an error envelope, got %v", result)
	}
	if !strings.Contains(msg, "Extraction flow failed") {
		t.Errorf("Expected flow-failure prefix, got %q", msg)
	}
	if !strings.Contains(msg, "model client blew up") {
		t.Errorf("Expected panic value in message, got %q", msg)
	}
}

func TestRunStrictValidation(t *testing.T) {
	s := mustSchema(t, `{"name": "string", "age": "number"}`)

	p := New(Options{
		Service: &llm_service.MockLLMService{
			CallLLMFunc: func(ctx context.Context, cfg llm_service.ServiceConfig, prompt string) (string, error) {
				return `{"name": "Ada", "age": "not a number at all"}`, nil
			},
		},
		StrictValidation: true,
	})

	result := p.Run(context.Background(), "doc", s)

	msg, ok := result["error"].(string)
	if !ok {
		t.Fatalf("Expected an error envelope under strict validation, got %v", result)
	}
	if !strings.Contains(msg, "failed schema validation") {
		t.Errorf("Expected validation-failure message, got %q", msg)
	}
}

func TestRunPromptContents(t *testing.T) {
	s := mustSchema(t, `{"title": "string"}`)

	var captured string
	p := New(Options{
		Service: &llm_service.MockLLMService{
			CallLLMFunc: func(ctx context.Context, cfg llm_service.ServiceConfig, prompt string) (string, error) {
				captured = prompt
				return `{"title": "x"}`, nil
			},
		},
	})

	doc := "Before\x00After"
	p.Run(context.Background(), doc, s)

	if strings.Contains(captured, "\x00") {
		t.Error("Expected NUL bytes stripped from the prompt")
	}
	if !strings.Contains(captured, "BeforeAfter") {
		t.Errorf("Expected cleaned document text in prompt, got %q", captured)
	}
	if !strings.Contains(captured, s.PromptRepresentation()) {
		t.Error("Expected schema rendering in prompt")
	}
}

func TestRunTruncatesLongDocuments(t *testing.T) {
	s := mustSchema(t, `{"title": "string"}`)

	var captured string
	p := New(Options{
		Service: &llm_service.MockLLMService{
			CallLLMFunc: func(ctx context.Context, cfg llm_service.ServiceConfig, prompt string) (string, error) {
				captured = prompt
				return `{"title": "x"}`, nil
			},
		},
	})

	doc := strings.Repeat("a", maxDocumentChars+500)
	p.Run(context.Background(), doc, s)

	if !strings.Contains(captured, truncationMarker) {
		t.Error("Expected truncation marker in prompt for over-long document")
	}
	if !strings.Contains(captured, strings.Repeat("a", maxDocumentChars)) {
		t.Error("Expected the document cut to exactly the character cap")
	}
	if strings.Contains(captured, strings.Repeat("a", maxDocumentChars+1)) {
		t.Error("Expected no document text past the character cap")
	}
}
