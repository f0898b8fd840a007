package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// errorSnippetLen bounds the amount of model output carried in parse errors.
const errorSnippetLen = 500

// ParseModelJSON recovers a JSON object from raw model output. The text may
// be wrapped in fenced code blocks, surrounded by prose, or truncated
// mid-value when the model hit its output limit. Strategies are tried in
// order, stopping at the first success:
//
//  1. strip a fenced code-block wrapper and parse strictly
//  2. repair a truncated tail (close open string, drop dangling comma,
//     close unmatched brackets and braces) and parse again
//  3. parse each balanced-brace substring found in the text
//  4. repair each such candidate as a last resort
func ParseModelJSON(raw string) (map[string]any, error) {
	cleaned := stripCodeFence(strings.TrimSpace(raw))

	var result map[string]any
	firstErr := json.Unmarshal([]byte(cleaned), &result)
	if firstErr == nil {
		return result, nil
	}

	if isTruncationError(firstErr) {
		if repaired := repairTruncatedJSON(cleaned); repaired != cleaned {
			if err := json.Unmarshal([]byte(repaired), &result); err == nil {
				return result, nil
			}
		}
	}

	candidates := jsonObjectCandidates(cleaned)
	for _, candidate := range candidates {
		if err := json.Unmarshal([]byte(candidate), &result); err == nil {
			return result, nil
		}
	}
	for _, candidate := range candidates {
		repaired := repairTruncatedJSON(candidate)
		if repaired == candidate {
			continue
		}
		if err := json.Unmarshal([]byte(repaired), &result); err == nil {
			return result, nil
		}
	}

	snippet := cleaned
	if len(snippet) > errorSnippetLen {
		snippet = snippet[:errorSnippetLen]
	}
	return nil, fmt.Errorf("model response is not valid JSON: %w (response: %s)", firstErr, snippet)
}

// stripCodeFence removes a leading/trailing markdown code-block wrapper and
// its language tag, if present.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		firstLine := strings.TrimSpace(s[:idx])
		if firstLine == "" || isLanguageTag(firstLine) {
			s = s[idx+1:]
		}
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// isTruncationError reports whether the parse failure looks like the input
// simply stopped mid-value.
func isTruncationError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "unexpected end of JSON input") ||
		strings.Contains(msg, "unexpected EOF")
}

// repairTruncatedJSON completes JSON text cut off mid-value: if the cursor
// ends inside a string literal the string is closed (escape sequences are
// honored while scanning), a dangling trailing comma is dropped, and
// unmatched brackets are closed before unmatched braces, matching the
// typical nesting of arrays inside objects.
func repairTruncatedJSON(s string) string {
	inString := false
	escaped := false
	openBrackets := 0
	openBraces := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '[':
			openBrackets++
		case ']':
			if openBrackets > 0 {
				openBrackets--
			}
		case '{':
			openBraces++
		case '}':
			if openBraces > 0 {
				openBraces--
			}
		}
	}

	if inString {
		s += `"`
	}

	s = strings.TrimRight(s, " \t\r\n")
	s = strings.TrimSuffix(s, ",")

	s += strings.Repeat("]", openBrackets)
	s += strings.Repeat("}", openBraces)
	return s
}

// jsonObjectCandidates returns every top-level balanced-brace substring, in
// order of appearance. Brace depth is tracked outside string literals only.
func jsonObjectCandidates(s string) []string {
	var candidates []string
	inString := false
	escaped := false
	depth := 0
	start := -1

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					candidates = append(candidates, s[start:i+1])
					start = -1
				}
			}
		}
	}

	// An unterminated trailing object is still a candidate for repair.
	if depth > 0 && start >= 0 {
		candidates = append(candidates, s[start:])
	}

	return candidates
}
