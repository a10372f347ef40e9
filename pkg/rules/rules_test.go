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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestNewSet(t *testing.T) {
	tests := []struct {
		name        string
		rules       []Rule
		wantErr     bool
		errContains string
		check       func(t *testing.T, s *Set)
	}{
		{
			name: "valid_rules",
			rules: []Rule{
				{Pattern: "l", Replacement: "1", Scope: CharacterLevel},
				{Pattern: "tbe", Replacement: "the", Scope: WordLevel},
			},
			check: func(t *testing.T, s *Set) {
				assert.Equal(t, 2, s.Len(), "set should keep both rules")
			},
		},
		{
			name:  "empty_set",
			rules: nil,
			check: func(t *testing.T, s *Set) {
				assert.Equal(t, 0, s.Len(), "empty set should be valid")
				assert.Empty(t, s.Rules(), "empty set should have no rules")
			},
		},
		{
			name: "empty_pattern",
			rules: []Rule{
				{Pattern: "", Replacement: "x", Scope: CharacterLevel},
			},
			wantErr:     true,
			errContains: "empty pattern",
		},
		{
			name: "duplicate_pattern_same_scope",
			rules: []Rule{
				{Pattern: "rn", Replacement: "m", Scope: CharacterLevel},
				{Pattern: "rn", Replacement: "n", Scope: CharacterLevel},
			},
			wantErr:     true,
			errContains: "duplicate pattern",
		},
		{
			name: "same_pattern_different_scope",
			rules: []Rule{
				{Pattern: "aud", Replacement: "and", Scope: WordLevel},
				{Pattern: "aud", Replacement: "and", Scope: CharacterLevel},
			},
			check: func(t *testing.T, s *Set) {
				assert.Equal(t, 2, s.Len(), "same pattern in different scopes is allowed")
			},
		},
		{
			name: "longest_pattern_first_within_scope",
			rules: []Rule{
				{Pattern: "r", Replacement: "x", Scope: CharacterLevel},
				{Pattern: "rn", Replacement: "m", Scope: CharacterLevel},
			},
			check: func(t *testing.T, s *Set) {
				got := s.ByScope(CharacterLevel)
				require.Len(t, got, 2)
				assert.Equal(t, "rn", got[0].Pattern, "longer pattern should sort first")
				assert.Equal(t, "r", got[1].Pattern)
			},
		},
		{
			name: "priority_breaks_length_ties",
			rules: []Rule{
				{Pattern: "cl", Replacement: "d", Scope: CharacterLevel, Priority: 1},
				{Pattern: "rn", Replacement: "m", Scope: CharacterLevel, Priority: 5},
			},
			check: func(t *testing.T, s *Set) {
				got := s.ByScope(CharacterLevel)
				require.Len(t, got, 2)
				assert.Equal(t, "rn", got[0].Pattern, "higher priority should sort first at equal length")
			},
		},
		{
			name: "word_rules_before_character_rules",
			rules: []Rule{
				{Pattern: "l", Replacement: "1", Scope: CharacterLevel},
				{Pattern: "tbe", Replacement: "the", Scope: WordLevel},
			},
			check: func(t *testing.T, s *Set) {
				got := s.Rules()
				require.Len(t, got, 2)
				assert.Equal(t, WordLevel, got[0].Scope, "word rules should come first in canonical order")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSet(tt.rules)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.True(t, errors.Is(err, ErrInvalidRuleSet), "error should wrap ErrInvalidRuleSet")
				return
			}

			require.NoError(t, err)
			require.NotNil(t, s)
			if tt.check != nil {
				tt.check(t, s)
			}
		})
	}
}

func TestSet_Hash(t *testing.T) {
	a := []Rule{
		{Pattern: "l", Replacement: "1", Scope: CharacterLevel},
		{Pattern: "tbe", Replacement: "the", Scope: WordLevel},
	}
	b := []Rule{
		{Pattern: "tbe", Replacement: "the", Scope: WordLevel},
		{Pattern: "l", Replacement: "1", Scope: CharacterLevel},
	}

	setA, err := NewSet(a)
	require.NoError(t, err)
	setB, err := NewSet(b)
	require.NoError(t, err)

	assert.Equal(t, setA.Hash(), setB.Hash(), "hash should not depend on input order")
	assert.Len(t, setA.Hash(), 64, "hash should be hex sha256")

	setC, err := NewSet([]Rule{
		{Pattern: "l", Replacement: "i", Scope: CharacterLevel},
		{Pattern: "tbe", Replacement: "the", Scope: WordLevel},
	})
	require.NoError(t, err)
	assert.NotEqual(t, setA.Hash(), setC.Hash(), "different replacement should change the hash")
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Scope
		wantErr bool
	}{
		{name: "character", in: "character", want: CharacterLevel},
		{name: "char_alias", in: "char", want: CharacterLevel},
		{name: "word", in: "word", want: WordLevel},
		{name: "mixed_case", in: "Word", want: WordLevel},
		{name: "padded", in: "  character ", want: CharacterLevel},
		{name: "unknown", in: "sentence", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScope(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
