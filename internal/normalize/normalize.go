// Package normalize extracts structured payloads from the noisy strings a
// conversational model emits as tool input. Models wrap JSON in markdown
// fences, stray backticks, and surrounding prose even when instructed not to;
// this package strips that tolerance layer and then decodes strictly, so
// genuinely broken structure is rejected rather than guessed at.
package normalize

import (
	"encoding/json"
	"strings"
)

// Clean removes markdown code block wrappers and stray backticks from a
// payload string.
func Clean(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Single backticks around the whole payload
	text = strings.Trim(text, "`")
	return strings.TrimSpace(text)
}

// ExtractObject locates the outermost balanced {...} span in text, tolerating
// leading and trailing prose around it. String literals and escapes inside
// the object are respected so braces in values don't unbalance the scan.
func ExtractObject(text string) (string, error) {
	start := strings.Index(text, "{")
	if start < 0 {
		return "", &MalformedError{Message: "no JSON object found"}
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", &MalformedError{Message: "unbalanced JSON object"}
}

// DecodeObject cleans text, extracts the outermost object span, and strictly
// decodes it into a flat field map. Values stay raw; per-field coercion and
// domain validation happen downstream.
func DecodeObject(text string) (map[string]json.RawMessage, error) {
	cleaned := Clean(text)
	if cleaned == "" {
		return nil, &MalformedError{Message: "input is empty after cleaning"}
	}

	span, err := ExtractObject(cleaned)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &fields); err != nil {
		return nil, &MalformedError{Message: "failed to decode JSON object", Cause: err}
	}

	return fields, nil
}
