package pipeline

import (
	"context"
	"log/slog"
	"strings"
)

// maxDocumentChars is a conservative character proxy for the model's
// context-window budget.
const maxDocumentChars = 32000

const truncationMarker = "\n[Document truncated due to length]"

// PreprocessStepImpl cleans the raw document text: NUL bytes are stripped and
// over-long documents are truncated with a visible marker. Always succeeds.
type PreprocessStepImpl struct {
	logger *slog.Logger
}

func (s *PreprocessStepImpl) Execute(ctx context.Context, state *State) error {
	text := strings.ReplaceAll(state.DocumentText, "\x00", "")

	if len(text) > maxDocumentChars {
		runes := []rune(text)
		if len(runes) > maxDocumentChars {
			s.logger.Debug("Truncating document text",
				slog.Int("original_chars", len(runes)),
				slog.Int("max_chars", maxDocumentChars))
			text = string(runes[:maxDocumentChars]) + truncationMarker
		}
	}

	state.ProcessedText = text
	return nil
}

func (s *PreprocessStepImpl) GetType() string {
	return "preprocess"
}
