// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🚫 ErrInvalidRuleSet is returned when a rule set fails validation
var ErrInvalidRuleSet = errors.New("invalid rule set")

// 🔍 Scope determines what unit of text a rule matches against
type Scope int

const (
	// CharacterLevel rules match literal substrings anywhere inside a word
	CharacterLevel Scope = iota
	// WordLevel rules require the whole whitespace-delimited token to equal the pattern
	WordLevel
)

// String returns a string representation of Scope
func (s Scope) String() string {
	switch s {
	case CharacterLevel:
		return "character"
	case WordLevel:
		return "word"
	default:
		return "unknown"
	}
}

// 🎯 ParseScope parses a scope name as used in configuration files
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "character", "char":
		return CharacterLevel, nil
	case "word":
		return WordLevel, nil
	default:
		return CharacterLevel, errors.Errorf("unknown scope %q (want %q or %q)", s, "character", "word")
	}
}

// 🔄 Rule is a single literal substitution: pattern -> replacement.
// Patterns are matched case-sensitively and are never regular expressions.
type Rule struct {
	Pattern     string // Literal text to match
	Replacement string // Text to substitute
	Scope       Scope  // Unit the pattern matches against
	Priority    int    // Higher priority wins among same-length patterns
}

// String returns a string representation of the rule
func (r Rule) String() string {
	return fmt.Sprintf("%q -> %q (%s)", r.Pattern, r.Replacement, r.Scope)
}

// 📚 Set is an immutable, ordered collection of substitution rules.
// Within each scope, rules are ordered by descending pattern length so a
// multi-character pattern ("rn" -> "m") is always tried before a shorter
// pattern ("r" -> "x") that overlaps the same span, then by descending
// priority, then by pattern text so the order is reproducible.
type Set struct {
	rules []Rule
	word  []Rule
	chars []Rule
	hash  string
}

// 🏭 NewSet validates and orders a rule set. It fails fast, before any
// text is analyzed or corrected, on an empty pattern or a duplicate
// (pattern, scope) pair.
func NewSet(rs []Rule) (*Set, error) {
	type key struct {
		pattern string
		scope   Scope
	}
	seen := make(map[key]int, len(rs))

	for i, r := range rs {
		if r.Pattern == "" {
			return nil, errors.Errorf("rule %d: empty pattern: %w", i, ErrInvalidRuleSet)
		}
		if r.Scope != CharacterLevel && r.Scope != WordLevel {
			return nil, errors.Errorf("rule %d (%q): unknown scope: %w", i, r.Pattern, ErrInvalidRuleSet)
		}
		k := key{r.Pattern, r.Scope}
		if prev, ok := seen[k]; ok {
			return nil, errors.Errorf("rule %d: duplicate pattern %q for scope %s (first at rule %d): %w",
				i, r.Pattern, r.Scope, prev, ErrInvalidRuleSet)
		}
		seen[k] = i
	}

	ordered := make([]Rule, len(rs))
	copy(ordered, rs)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Scope != b.Scope {
			// Word rules sort first, matching correction precedence
			return a.Scope == WordLevel
		}
		if len(a.Pattern) != len(b.Pattern) {
			return len(a.Pattern) > len(b.Pattern)
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.Pattern < b.Pattern
	})

	s := &Set{rules: ordered}
	for _, r := range ordered {
		switch r.Scope {
		case WordLevel:
			s.word = append(s.word, r)
		case CharacterLevel:
			s.chars = append(s.chars, r)
		}
	}
	s.hash = computeHash(ordered)
	return s, nil
}

// 📂 Rules returns all rules in canonical order.
// The returned slice is shared; callers must not modify it.
func (s *Set) Rules() []Rule {
	return s.rules
}

// 🔍 ByScope returns the rules for one scope in canonical order.
// The returned slice is shared; callers must not modify it.
func (s *Set) ByScope(scope Scope) []Rule {
	if scope == WordLevel {
		return s.word
	}
	return s.chars
}

// Len returns the number of rules in the set
func (s *Set) Len() int {
	return len(s.rules)
}

// 🔑 Hash returns a hex sha256 over the canonical rule ordering. Two sets
// with the same rules always hash identically, whatever order they were
// supplied in.
func (s *Set) Hash() string {
	return s.hash
}

func computeHash(rs []Rule) string {
	h := sha256.New()
	for _, r := range rs {
		fmt.Fprintf(h, "%s\x1f%s\x1f%s\x1f%d\n", r.Scope, r.Pattern, r.Replacement, r.Priority)
	}
	return hex.EncodeToString(h.Sum(nil))
}
