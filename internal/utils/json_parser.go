package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseAIJSON parses JSON out of LLM output that may be pure JSON, JSON in
// a markdown code fence, or JSON surrounded by prose. Used by the slot
// extractor; a parse failure there is treated as "no extraction".
func ParseAIJSON(input string, target any) error {
	if input == "" {
		return fmt.Errorf("empty input")
	}

	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if extracted := extractFromMarkdown(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	if extracted := extractJSONFromText(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("failed to parse JSON from input: %s", truncate(input, 100))
}

var (
	fencedJSON = regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")
	fencedAny  = regexp.MustCompile("(?s)```\\s*(.+?)\\s*```")
)

func extractFromMarkdown(input string) string {
	if m := fencedJSON.FindStringSubmatch(input); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	if m := fencedAny.FindStringSubmatch(input); len(m) > 1 {
		content := strings.TrimSpace(m[1])
		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			return content
		}
	}
	return ""
}

func extractJSONFromText(input string) string {
	if start := strings.Index(input, "{"); start >= 0 {
		if extracted := extractBalanced(input[start:], '{', '}'); extracted != "" {
			return extracted
		}
	}
	if start := strings.Index(input, "["); start >= 0 {
		if extracted := extractBalanced(input[start:], '[', ']'); extracted != "" {
			return extracted
		}
	}
	return ""
}

// extractBalanced returns the first brace-balanced span, string-literal
// aware.
func extractBalanced(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false
	start := 0

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}
		switch {
		case ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			if depth == 0 {
				start = i
			}
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}
	return ""
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
