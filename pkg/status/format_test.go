package status

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 🧪 TestDefaultFileFormatter tests the default file formatter implementation
func TestDefaultFileFormatter(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		era         string
		status      FileStatus
		want        string
		description string
	}{
		{
			name:        "analyzing_file",
			path:        "1885/page_ocr.txt",
			era:         "1875-1899 (Late 19th C)",
			status:      StatusAnalyzing,
			want:        "🔍 Analyzing 1885/page_ocr.txt",
			description: "should show analysis symbol while reading",
		},
		{
			name:        "corrected_file",
			path:        "1885/page_ocr.txt",
			era:         "1875-1899 (Late 19th C)",
			status:      StatusCorrected,
			want:        "✨ Corrected 1885/page_ocr.txt",
			description: "should show sparkle for corrected output",
		},
		{
			name:        "skipped_file",
			path:        "1914/page_ocr.txt",
			era:         "1900-1919 (WWI Era)",
			status:      StatusSkipped,
			want:        "⏭️  Skipped 1914/page_ocr.txt",
			description: "should show skip symbol for unchanged files",
		},
		{
			name:        "failed_file",
			path:        "bad/page_ocr.txt",
			era:         "Unknown",
			status:      StatusFailed,
			want:        "❌ Failed bad/page_ocr.txt",
			description: "should show failure symbol",
		},
		{
			name:        "pending_file",
			path:        "queue/page_ocr.txt",
			era:         "Unknown",
			status:      StatusPending,
			want:        "📄 Queued queue/page_ocr.txt",
			description: "should show queued symbol before processing",
		},
	}

	formatter := NewDefaultFileFormatter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatter.FormatFileOperation(tt.path, tt.era, tt.status)
			assert.Equal(t, tt.want, got, tt.description)
		})
	}
}

// 🧪 TestFormatProgress tests progress formatting
func TestFormatProgress(t *testing.T) {
	tests := []struct {
		name        string
		current     int
		total       int
		want        string
		description string
	}{
		{
			name:        "starting",
			current:     0,
			total:       10,
			want:        "⏳ Progress: 0/10 (0%)",
			description: "should show hourglass at start",
		},
		{
			name:        "halfway",
			current:     5,
			total:       10,
			want:        "⏳ Progress: 5/10 (50%)",
			description: "should show percentage mid-run",
		},
		{
			name:        "complete",
			current:     10,
			total:       10,
			want:        "✅ Progress: 10/10 (100%)",
			description: "should show check mark when done",
		},
		{
			name:        "empty_corpus",
			current:     0,
			total:       0,
			want:        "✅ Progress: 0/0 (0%)",
			description: "zero of zero counts as done",
		},
	}

	formatter := NewDefaultFileFormatter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatter.FormatProgress(tt.current, tt.total)
			assert.Equal(t, tt.want, got, tt.description)
		})
	}
}

// 🧪 TestFormatError tests error formatting
func TestFormatError(t *testing.T) {
	formatter := NewDefaultFileFormatter()

	assert.Empty(t, formatter.FormatError(nil), "nil error should format empty")
	assert.Equal(t, "❌ Error: boom", formatter.FormatError(fmt.Errorf("boom")),
		"error should carry the failure symbol")
}
