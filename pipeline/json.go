package pipeline

import "strings"

// extractJSONBlock locates a markdown code fence anywhere in a model reply
// and returns its contents. Models often wrap JSON in ```json ... ``` blocks
// and preface them with prose even when instructed not to; the trimmed reply
// is returned unchanged when no fence is present.
func extractJSONBlock(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}

	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+len("```"):]
		// A bare fence may still carry a language identifier on its first
		// line; skip it when the line cannot be part of the JSON itself.
		if nl := strings.Index(rest, "\n"); nl >= 0 {
			firstLine := rest[:nl]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				rest = rest[nl+1:]
			}
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}

	return strings.TrimSpace(text)
}
