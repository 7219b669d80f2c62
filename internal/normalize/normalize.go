// Package normalize centralizes value parsing and normalization for the
// import pipeline. The validator and the transformer must share these
// functions so a value that validates cleanly always transforms the
// same way.
package normalize

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	currencyRe   = regexp.MustCompile(`[€$£¥\s]`)
	alnumRe      = regexp.MustCompile(`[^a-z0-9]`)
	domainLikeRe = regexp.MustCompile(`^[\w-]+(\.[\w-]+)+`)
	protocolRe   = regexp.MustCompile(`(?i)^https?://`)
	specialRe    = regexp.MustCompile(`(?i)^(data:|blob:)`)
)

var trueTokens = map[string]bool{
	"true": true, "1": true, "yes": true, "sí": true, "si": true,
	"verdadero": true, "activo": true, "x": true,
}

var falseTokens = map[string]bool{
	"false": true, "0": true, "no": true, "falso": true,
	"inactivo": true, "": true,
}

// ParsePrice parses a price string handling currency symbols and both
// European and US grouping. Returns false when the value is not numeric.
//
//	"1.234,56" -> 1234.56
//	"1,234.56" -> 1234.56
//	"$ 12,50"  -> 12.5
func ParsePrice(value string) (float64, bool) {
	if strings.TrimSpace(value) == "" {
		return 0, false
	}

	cleaned := currencyRe.ReplaceAllString(value, "")

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")

	switch {
	case lastComma >= 0 && lastDot < 0:
		// 1234,56 -> comma is the decimal separator
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case lastComma > lastDot:
		// European grouping: 1.234,56
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case lastDot > lastComma && lastComma >= 0:
		// US grouping: 1,234.56
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// ParseBool recognizes localized boolean tokens, case- and
// accent-insensitive. Returns false in the second result for
// unrecognized tokens.
func ParseBool(value string) (bool, bool) {
	token := strings.ToLower(strings.TrimSpace(value))
	if trueTokens[token] {
		return true, true
	}
	if falseTokens[token] {
		return false, true
	}
	// Accent-insensitive second pass ("SÍ" with different composition)
	token = strings.ToLower(RemoveDiacritics(token))
	if token == "si" {
		return true, true
	}
	return false, false
}

// Key normalizes a column or field name for mapping comparison:
// lowercase, diacritics stripped, non-alphanumerics removed.
func Key(name string) string {
	s := strings.ToLower(RemoveDiacritics(name))
	return alnumRe.ReplaceAllString(s, "")
}

// RemoveDiacritics strips combining marks via NFD decomposition
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// IsLikelyURL reports whether a value passes the lenient URL check used
// for image columns: empty, relative paths, absolute URLs, or bare
// domain-like tokens all pass.
func IsLikelyURL(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return true
	}
	if strings.HasPrefix(v, "/") || strings.HasPrefix(v, "./") {
		return true
	}
	if u, err := url.Parse(v); err == nil && u.Scheme != "" {
		return true
	}
	return domainLikeRe.MatchString(v)
}

// ImageURL normalizes an image reference. Absolute http(s), data: and
// blob: URIs and relative paths pass unchanged; bare domain-like tokens
// get https:// prepended; anything else passes through. Empty input
// yields nil.
func ImageURL(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}

	if protocolRe.MatchString(trimmed) || specialRe.MatchString(trimmed) {
		return &trimmed
	}
	if strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "./") {
		return &trimmed
	}
	if domainLikeRe.MatchString(trimmed) {
		withScheme := "https://" + trimmed
		return &withScheme
	}
	return &trimmed
}
