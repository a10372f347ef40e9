// Package scan splits raw OCR text into whitespace-delimited word tokens
// while preserving byte offsets, so the original text stays reconstructible
// from tokens plus the separator runs between them.
package scan

import "unicode"

// Token is one whitespace-delimited word with its location in the
// original text. Offsets are byte offsets; Text equals text[Start:End].
type Token struct {
	Text  string
	Start int
	End   int
}

// Words tokenizes text into word tokens. It is a pure function: no
// normalization of whitespace or case is performed. Empty input yields
// a nil token slice.
func Words(text string) []Token {
	var tokens []Token
	start := -1

	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, Token{Text: text[start:i], Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Text: text[start:], Start: start, End: len(text)})
	}

	return tokens
}
