// Package parser extracts typed records from project source text using
// regex heuristics. This is deliberately not a real parser for Python or
// TypeScript: best-effort static analysis, cheap and dependency-free.
package parser

import "strings"

// BracketBlock extracts the content of a [...] list, starting the search at
// from. Nested brackets are handled by depth counting. Returns the inner
// content and the offset of the opening bracket (-1 when none is found).
func BracketBlock(text string, from int) (string, int) {
	open := strings.Index(text[from:], "[")
	if open == -1 {
		return "", -1
	}
	open += from
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[open+1 : i], open
			}
		}
	}
	return text[open+1:], open
}

// BraceBlock extracts the content between the brace at open and its match.
// Braces inside string literals (single, double, or backtick quoted, with
// backslash escapes) do not affect the depth count.
func BraceBlock(text string, open int) string {
	depth := 0
	var inString byte
	for i := open; i < len(text); i++ {
		ch := text[i]
		if inString != 0 {
			if ch == '\\' && i+1 < len(text) {
				i++
				continue
			}
			if ch == inString {
				inString = 0
			}
			continue
		}
		switch ch {
		case '\'', '"', '`':
			inString = ch
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[open+1 : i]
			}
		}
	}
	return text[open+1:]
}

// LineAt returns the 1-based line number of a byte offset.
func LineAt(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	return strings.Count(text[:offset], "\n") + 1
}
