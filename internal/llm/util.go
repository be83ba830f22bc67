package llm

import "strings"

// CleanJSONBlock reduces a model reply to the JSON value it contains. Replies
// are often fenced in ```json blocks or wrapped in prose even when the model
// is told to return bare JSON. A reply with no balanced value is returned
// trimmed so the caller's decoder reports the error.
func CleanJSONBlock(text string) string {
	text = unfence(strings.TrimSpace(text))

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	if value := balancedValue(text[start:]); value != "" {
		return value
	}
	return text
}

// unfence strips a surrounding markdown code fence and its language tag.
func unfence(text string) string {
	body, ok := strings.CutPrefix(text, "```")
	if !ok {
		return text
	}

	// A short first line with no spaces or braces is a language tag.
	if tag, rest, found := strings.Cut(body, "\n"); found &&
		len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
		body = rest
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// balancedValue returns the object or array at the start of s up to its
// matching close, ignoring delimiters inside string literals. It returns ""
// when s does not start with '{' or '[' or the value is unterminated.
func balancedValue(s string) string {
	if s == "" {
		return ""
	}
	var open, close byte
	switch s[0] {
	case '{':
		open, close = '{', '}'
	case '[':
		open, close = '[', ']'
	default:
		return ""
	}

	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			if depth--; depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
