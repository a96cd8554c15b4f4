package service

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// parseMoney parses a monetary cell value. Currency symbols and spaces are
// stripped; "12,500.50" style thousands separators are removed and a bare
// decimal comma is converted to a period. Unparsable values are treated as
// absent, not as errors.
func parseMoney(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	switch {
	case strings.Contains(cleaned, ",") && strings.Contains(cleaned, "."):
		// Comma is a thousands separator when both are present.
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case strings.Contains(cleaned, ","):
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	if cleaned == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// parseProbability parses a percentage, clamped to [0, 100] and rounded to
// the nearest integer.
func parseProbability(s string) (int, bool) {
	value, ok := parseMoney(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if !ok {
		return 0, false
	}
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	return int(math.Round(value)), true
}

// parseBool recognizes the usual spreadsheet truthy/falsy spellings.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1":
		return true, true
	case "false", "no", "n", "0":
		return false, true
	}
	return false, false
}

var dateFormats = []string{
	"01/02/2006",            // MM/DD/YYYY (US format)
	"01-02-06",              // MM-DD-YY (Excel US format with dash)
	"01/02/2006 3:04:05 PM", // MM/DD/YYYY with time
	"01/02/06",              // MM/DD/YY (short year)
	"2006-01-02",            // YYYY-MM-DD (ISO standard)
	"2006/01/02",            // YYYY/MM/DD
	"02-01-2006",            // DD-MM-YYYY (European format)
	"02/01/2006",            // DD/MM/YYYY (European format)
	"Jan 02, 2006",          // Month DD, YYYY
	"02 Jan 2006",           // DD Month YYYY
}

// parseDate tries the common spreadsheet date formats. Unparsable dates are
// treated as absent.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// splitFullName splits a full name on whitespace. A single token is used as
// both first and last name; with multiple tokens the first is the first name
// and the remainder joined is the last name.
func splitFullName(full string) (string, string) {
	tokens := strings.Fields(full)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], tokens[0]
	}
	return tokens[0], strings.Join(tokens[1:], " ")
}
