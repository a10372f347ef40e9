package analyze

import (
	"unicode"

	"github.com/walteh/ocrrc/pkg/scan"
)

// SuspiciousCounts tracks rule-independent indicators of likely OCR
// damage. These are diagnostic only and are never fed to correction.
type SuspiciousCounts struct {
	// MixedAlphanumeric counts tokens mixing letters and digits,
	// e.g. "l1fted" or "c0mpany".
	MixedAlphanumeric int

	// RepeatedRuns counts tokens containing a run of 3 or more identical
	// letters or digits, e.g. "coooper". Punctuation runs such as
	// ellipses are not counted.
	RepeatedRuns int
}

// Suspicious scans text for suspicious tokens without any rule set.
func Suspicious(text string) SuspiciousCounts {
	return countSuspicious(scan.Words(text))
}

func countSuspicious(tokens []scan.Token) SuspiciousCounts {
	var counts SuspiciousCounts
	for _, tok := range tokens {
		if isMixedAlphanumeric(tok.Text) {
			counts.MixedAlphanumeric++
		}
		if hasRepeatedRun(tok.Text) {
			counts.RepeatedRuns++
		}
	}
	return counts
}

func isMixedAlphanumeric(word string) bool {
	hasLetter, hasDigit := false, false
	for _, r := range word {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
		if hasLetter && hasDigit {
			return true
		}
	}
	return false
}

func hasRepeatedRun(word string) bool {
	var prev rune
	run := 0
	for _, r := range word {
		if r == prev && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 1
		}
		prev = r
	}
	return false
}
