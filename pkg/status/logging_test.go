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

package status

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestFormatFileLine(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name       string
		info       FileInfo
		wantPrefix string
		wantSuffix string
	}{
		{
			name: "corrected_file_with_matches",
			info: FileInfo{
				Path:    "texarkana/1885/page01_ocr.txt",
				Status:  StatusCorrected,
				Era:     "1875-1899 (Late 19th C)",
				Matches: 12,
			},
			wantPrefix: "✓",
			wantSuffix: "12 matches",
		},
		{
			name: "analyzed_file",
			info: FileInfo{
				Path:    "gazette/1901/page02_ocr.txt",
				Status:  StatusAnalyzed,
				Era:     "1900-1919 (WWI Era)",
				Matches: 3,
			},
			wantPrefix: "✓",
			wantSuffix: "3 matches",
		},
		{
			name: "in_flight_file",
			info: FileInfo{
				Path:   "gazette/1901/page03_ocr.txt",
				Status: StatusAnalyzing,
				Era:    "1900-1919 (WWI Era)",
			},
			wantPrefix: "⟳",
		},
		{
			name: "failed_file",
			info: FileInfo{
				Path:   "bad/page_ocr.txt",
				Status: StatusFailed,
			},
			wantPrefix: "✗",
		},
		{
			name: "missing_file",
			info: FileInfo{
				Path:   "gone/page_ocr.txt",
				Status: StatusMissing,
			},
			wantPrefix: "✗",
		},
		{
			name: "skipped_file",
			info: FileInfo{
				Path:   "unchanged/page_ocr.txt",
				Status: StatusSkipped,
				Era:    "Unknown",
			},
			wantPrefix: "-",
		},
		{
			name: "pending_file",
			info: FileInfo{
				Path:   "queued/page_ocr.txt",
				Status: StatusPending,
			},
			wantPrefix: "•",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := FormatFileLine(tt.info)
			assert.Contains(t, line, tt.wantPrefix, "line should carry the status glyph")
			assert.Contains(t, line, tt.info.Path, "line should name the file")
			if tt.wantSuffix != "" {
				assert.Contains(t, line, tt.wantSuffix, "match count should be shown")
			} else {
				assert.NotContains(t, line, "matches", "zero matches should not be shown")
			}
		})
	}
}

func TestFormatFileLine_Columns(t *testing.T) {
	color.NoColor = true

	a := FormatFileLine(FileInfo{Path: "a.txt", Status: StatusAnalyzed, Era: "Unknown", Matches: 1})
	b := FormatFileLine(FileInfo{Path: "much/longer/name_ocr.txt", Status: StatusAnalyzed, Era: "1920-1939 (Interwar)", Matches: 1})

	assert.Contains(t, a, "Unknown", "era column should be present")
	assert.Contains(t, b, "1920-1939 (Interwar)", "era column should be present")
}
