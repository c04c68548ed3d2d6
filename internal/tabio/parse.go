package tabio

import (
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeKey removes all whitespace from a composite region key so that
// survey and boundary spellings of the same area compare equal.
func NormalizeKey(s string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), "")
}

// ParseFloat parses a numeric field, reporting ok=false for blanks and
// unparseable values.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseFloatSentinel parses a numeric field and additionally maps "not
// observed" sentinel codes (values >= sentinel) to missing.
func ParseFloatSentinel(s string, sentinel float64) (float64, bool) {
	v, ok := ParseFloat(s)
	if !ok || v >= sentinel {
		return 0, false
	}
	return v, true
}

// ParseInt parses an integer field, reporting ok=false for blanks and
// unparseable values.
func ParseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatFloat renders a float for CSV output without trailing zero noise.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
