// Package extract pulls typed fields out of plain-text report bodies.
//
// All primitives are total: they never fail, returning the type's zero
// value when no match exists. A missing signal is indistinguishable from an
// absent one by design — the merge layer treats zero values as unfilled.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Optional currency symbol, then a decimal with optional thousands
	// separators.
	moneyRe = regexp.MustCompile(`[$€£]?\s*(-?\d+(?:,\d{3})*(?:\.\d+)?)`)

	// Signed decimal immediately followed by a percent sign.
	percentRe = regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)%`)

	// First integer token, thousands separators allowed.
	integerRe = regexp.MustCompile(`-?\d+(?:,\d{3})*`)

	// First substring in matching straight or curly quotes.
	quotedRe = regexp.MustCompile(`"([^"]*)"|“([^”]*)”|'([^']*)'|‘([^’]*)’`)
)

// Money parses the first currency-looking amount on a line: an optional
// leading symbol and a decimal with optional thousands separators.
func Money(line string) float64 {
	m := moneyRe.FindStringSubmatch(line)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// Percent parses the first signed decimal immediately followed by "%".
func Percent(line string) float64 {
	m := percentRe.FindStringSubmatch(line)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}

// Integer parses the first integer token on a line, ignoring thousands
// separators.
func Integer(line string) int {
	m := integerRe.FindString(line)
	if m == "" {
		return 0
	}
	v, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0
	}
	return v
}

// FindLine returns the first line of text whose lowercase form contains ALL
// keywords as substrings. Matching is line-scoped rather than whole-text to
// avoid pairing keywords across unrelated sentences.
func FindLine(text string, keywords ...string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		lower := strings.ToLower(line)
		all := true
		for _, kw := range keywords {
			if !strings.Contains(lower, strings.ToLower(kw)) {
				all = false
				break
			}
		}
		if all && len(keywords) > 0 {
			return line
		}
	}
	return ""
}

// After returns the text following the first case-insensitive occurrence of
// label, trimmed and cut at the end of that line.
func After(text, label string) string {
	idx := strings.Index(strings.ToLower(text), strings.ToLower(label))
	if idx < 0 {
		return ""
	}
	rest := text[idx+len(label):]
	if nl := strings.IndexAny(rest, "\r\n"); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest)
}

// Quoted returns the first substring enclosed in matching quote characters,
// straight or curly.
func Quoted(text string) string {
	m := quotedRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	for _, group := range m[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}
