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
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	eraWidth    = 25 // Width for the era label
	statusWidth = 12 // Width for status text
)

// 🎯 FormatFileLine formats one tracked file for terminal display
func FormatFileLine(info FileInfo) string {
	// Determine prefix symbol
	var prefix string
	switch info.Status {
	case StatusCorrected, StatusAnalyzed:
		prefix = color.GreenString("✓")
	case StatusAnalyzing, StatusCorrecting:
		prefix = color.YellowString("⟳")
	case StatusFailed, StatusMissing:
		prefix = color.RedString("✗")
	case StatusSkipped:
		prefix = color.HiBlackString("-")
	default:
		prefix = color.HiBlackString("•")
	}

	// Format parts with padding
	namePart := fmt.Sprintf("%-*s", nameWidth, info.Path)
	eraPart := fmt.Sprintf("%-*s", eraWidth, info.Era)
	statusPart := fmt.Sprintf("%-*s", statusWidth, info.Status)

	// Build final string with indentation
	line := fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		eraPart,
		statusPart,
	)
	if info.Matches > 0 {
		line = fmt.Sprintf("%s %5d matches", line, info.Matches)
	}
	return line
}
