// Package era derives publication metadata from corpus file paths.
// Scanned newspaper archives encode the publication year, a short
// newspaper code, scan resolution, and processing stage in their file
// and directory names; nothing here opens the file itself.
package era

import (
	"path/filepath"
	"strings"
)

// Unknown is the label used whenever a component cannot be derived.
const Unknown = "Unknown"

// Stage labels, in the precedence order they are probed.
const (
	StageInProcess = "in_process"
	StageReady     = "ready"
	StageArchived  = "archived"
	StageBatch     = "batch"
	StageUnknown   = "unknown"
)

// Info is the metadata derived from one corpus path.
type Info struct {
	Year       int    // publication year, 0 when none found
	Era        string // historical era label for Year
	Newspaper  string // three letter newspaper code, "unknown" when absent
	Resolution int    // scan resolution in dpi, 0 when absent
	Stage      string // processing stage directory marker
}

// ForYear buckets a publication year into its historical era label.
// Years outside the plausible 1700..2099 range (including 0) map to
// Unknown.
func ForYear(year int) string {
	switch {
	case year < 1700 || year > 2099:
		return Unknown
	case year < 1850:
		return "1800-1849 (Early 19th C)"
	case year < 1875:
		return "1850-1874 (Mid 19th C)"
	case year < 1900:
		return "1875-1899 (Late 19th C)"
	case year < 1920:
		return "1900-1919 (WWI Era)"
	case year < 1940:
		return "1920-1939 (Interwar)"
	case year < 1960:
		return "1940-1959 (WWII-Postwar)"
	case year < 1980:
		return "1960-1979 (Modern)"
	default:
		return "1980-2001 (Digital Era)"
	}
}

// Classify derives all metadata for one path. The file name is probed
// first for the year and newspaper code; resolution and stage come from
// anywhere in the path.
func Classify(path string) Info {
	lower := strings.ToLower(path)
	base := strings.ToLower(filepath.Base(path))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, "_ocr")

	year := findYear(base)
	if year == 0 {
		year = findYear(lower)
	}

	return Info{
		Year:       year,
		Era:        ForYear(year),
		Newspaper:  findNewspaperCode(base),
		Resolution: findResolution(lower),
		Stage:      findStage(lower),
	}
}

// findYear returns the first plausible four digit year embedded in s.
// Digit runs longer than four characters are scanned with a sliding
// window so dates like 18850102 still yield 1885.
func findYear(s string) int {
	runStart := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] >= '0' && s[i] <= '9' {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			if year := yearInRun(s[runStart:i]); year != 0 {
				return year
			}
			runStart = -1
		}
	}
	return 0
}

func yearInRun(digits string) int {
	for i := 0; i+4 <= len(digits); i++ {
		year := 0
		for _, c := range []byte(digits[i : i+4]) {
			year = year*10 + int(c-'0')
		}
		if year >= 1700 && year <= 2099 {
			return year
		}
	}
	return 0
}

// findNewspaperCode returns the first maximal letter run of exactly
// three characters, uppercased. Longer runs are ordinary words, not
// codes.
func findNewspaperCode(base string) string {
	runStart := -1
	for i := 0; i <= len(base); i++ {
		if i < len(base) && isASCIILetter(base[i]) {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			if i-runStart == 3 {
				return strings.ToUpper(base[runStart:i])
			}
			runStart = -1
		}
	}
	return "unknown"
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func findResolution(lower string) int {
	for _, dpi := range []struct {
		marker string
		value  int
	}{
		{"150dpi", 150},
		{"300dpi", 300},
		{"400dpi", 400},
		{"600dpi", 600},
	} {
		if strings.Contains(lower, dpi.marker) {
			return dpi.value
		}
	}
	return 0
}

func findStage(lower string) string {
	switch {
	case strings.Contains(lower, "inprocess"):
		return StageInProcess
	case strings.Contains(lower, "ready"):
		return StageReady
	case strings.Contains(lower, "archival"):
		return StageArchived
	case strings.Contains(lower, "batch"):
		return StageBatch
	default:
		return StageUnknown
	}
}
