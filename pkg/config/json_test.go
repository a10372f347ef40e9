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

package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 TestJSONParsing tests JSON config parsing
func TestJSONParsing(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_minimal_json",
			config: `{
				"corpus": {
					"root": "/scans/archive"
				}
			}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/scans/archive", cfg.Corpus.Root)
				assert.Empty(t, cfg.Rules)
				assert.Nil(t, cfg.Report)
				assert.Nil(t, cfg.Correct)
			},
		},
		{
			name: "valid_full_json",
			config: `{
				"corpus": {
					"root": "/scans/archive",
					"include": ["**/*_ocr.txt"],
					"ignore": ["**/*_corrected.txt"],
					"encoding": "windows-1252",
					"max_file_size": 2048
				},
				"rules": [
					{
						"pattern": "tbe",
						"replacement": "the",
						"scope": "word"
					},
					{
						"pattern": "rn",
						"replacement": "m",
						"scope": "character",
						"priority": 5
					}
				],
				"rules_source": "github.com/walteh/ocr-rules//packs/english.yaml",
				"report": {
					"top_patterns": 20,
					"json_top": 80,
					"out_dir": "reports"
				},
				"correct": {
					"suffix": "_clean",
					"dry_run": true
				},
				"jobs": 8
			}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/scans/archive", cfg.Corpus.Root)
				assert.Equal(t, []string{"**/*_ocr.txt"}, cfg.Corpus.Include)
				assert.Equal(t, []string{"**/*_corrected.txt"}, cfg.Corpus.Ignore)
				assert.Equal(t, "windows-1252", cfg.Corpus.Encoding)
				assert.Equal(t, int64(2048), cfg.Corpus.MaxFileSize)
				require.Len(t, cfg.Rules, 2)
				assert.Equal(t, "tbe", cfg.Rules[0].Pattern)
				assert.Equal(t, 5, cfg.Rules[1].Priority)
				assert.Equal(t, "github.com/walteh/ocr-rules//packs/english.yaml", cfg.RulesSource)
				require.NotNil(t, cfg.Report)
				assert.Equal(t, 20, cfg.Report.TopPatterns)
				assert.Equal(t, 80, cfg.Report.JSONTop)
				assert.Equal(t, "reports", cfg.Report.OutDir)
				require.NotNil(t, cfg.Correct)
				assert.Equal(t, "_clean", cfg.Correct.Suffix)
				assert.True(t, cfg.Correct.DryRun)
				assert.Equal(t, 8, cfg.Jobs)
			},
		},
		{
			name: "invalid_json_syntax",
			config: `{
				"corpus": {
					"root": "/scans/archive",
			}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name: "unknown_field_rejected",
			config: `{
				"corpus": {"root": "/scans/archive"},
				"telemetry": true
			}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name: "missing_root_rejected",
			config: `{
				"rules": [{"pattern": "tbe", "replacement": "the", "scope": "word"}]
			}`,
			wantErr:     true,
			errContains: "corpus.root is required",
		},
	}

	parser := &JSONParser{}
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parser.Parse(ctx, []byte(tt.config))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

// 🧪 TestJSONCanParse tests file name matching
func TestJSONCanParse(t *testing.T) {
	parser := &JSONParser{}
	assert.True(t, parser.CanParse(".ocrrc.json"), "dotted config name should match")
	assert.True(t, parser.CanParse("CONFIG.JSON"), "matching should be case insensitive")
	assert.False(t, parser.CanParse("config.yaml"), "yaml should not match")
}
