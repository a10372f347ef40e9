// Package correct applies a substitution rule set to OCR text. Unlike
// analysis, correction is mutating and exclusive: once a span has been
// rewritten by one rule, no other rule may rewrite an overlapping span in
// the same pass.
package correct

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/ocrrc/pkg/rules"
	"github.com/walteh/ocrrc/pkg/scan"
)

// MatchEvent records one applied correction. Offsets are byte offsets
// into the original text; SourceUnit is the original text of the span.
// Events are read-only once recorded.
type MatchEvent struct {
	Rule       rules.Rule
	Start      int
	End        int
	SourceUnit string
}

// Result is the outcome of one correction pass over one text body.
// ChangeLog is ordered by start offset. Treat a Result as immutable.
type Result struct {
	CorrectedText string
	ChangeLog     []MatchEvent
}

// WasModified reports whether any rule was applied.
func (r Result) WasModified() bool {
	return len(r.ChangeLog) > 0
}

// Correct rewrites text under the rule set and returns the corrected
// text with an auditable change log.
//
// The scan proceeds left to right. Each whitespace-delimited token is
// first checked against word-level rules (exact whole-token equality);
// on a match the whole token is replaced and no character-level rule may
// fire inside it. Otherwise character-level rules are tried at each
// position in the set's order (longest pattern first, then priority) and
// the first match wins. After a match the cursor moves past the matched
// span and only the untouched remainder is scanned, so replacement text
// is never re-matched in the same pass and corrections cannot cascade.
// Separator runs between tokens are copied verbatim.
//
// Empty text yields an empty Result. The function performs no I/O.
func Correct(ctx context.Context, text string, set *rules.Set) Result {
	if text == "" {
		return Result{}
	}

	wordRules := set.ByScope(rules.WordLevel)
	byToken := make(map[string]rules.Rule, len(wordRules))
	for _, r := range wordRules {
		byToken[r.Pattern] = r
	}
	charRules := set.ByScope(rules.CharacterLevel)

	var out strings.Builder
	out.Grow(len(text))
	var log []MatchEvent

	last := 0
	for _, tok := range scan.Words(text) {
		out.WriteString(text[last:tok.Start])

		if r, ok := byToken[tok.Text]; ok {
			out.WriteString(r.Replacement)
			log = append(log, MatchEvent{
				Rule:       r,
				Start:      tok.Start,
				End:        tok.End,
				SourceUnit: tok.Text,
			})
		} else {
			log = correctToken(tok, charRules, &out, log)
		}
		last = tok.End
	}
	out.WriteString(text[last:])

	zerolog.Ctx(ctx).Debug().
		Int("chars", len(text)).
		Int("corrections", len(log)).
		Msg("corrected text")

	return Result{CorrectedText: out.String(), ChangeLog: log}
}

// correctToken applies character-level rules inside a single token,
// first match in rule order wins at each position.
func correctToken(tok scan.Token, charRules []rules.Rule, out *strings.Builder, log []MatchEvent) []MatchEvent {
	word := tok.Text
	i := 0
	for i < len(word) {
		matched := false
		for _, r := range charRules {
			if strings.HasPrefix(word[i:], r.Pattern) {
				out.WriteString(r.Replacement)
				log = append(log, MatchEvent{
					Rule:       r,
					Start:      tok.Start + i,
					End:        tok.Start + i + len(r.Pattern),
					SourceUnit: word[i : i+len(r.Pattern)],
				})
				i += len(r.Pattern)
				matched = true
				break
			}
		}
		if !matched {
			_, size := utf8.DecodeRuneInString(word[i:])
			out.WriteString(word[i : i+size])
			i += size
		}
	}
	return log
}
