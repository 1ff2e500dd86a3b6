package logger

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Sanitizer masks sensitive values in condition fragments before they reach a
// log sink. Detection is based on field names appearing in the fragment text;
// since the engine binds parameters under opaque generated names (p0, p1, ...),
// the fragment is the only place a sensitive column can be recognized.
type Sanitizer struct {
	sensitiveFields []string
	maskValue       string
	patterns        []*regexp.Regexp
}

// NewSanitizer creates a sanitizer for the given sensitive field names.
// If no fields are provided, a default set of common sensitive field names is used.
func NewSanitizer(sensitiveFields []string) *Sanitizer {
	if len(sensitiveFields) == 0 {
		sensitiveFields = []string{
			"password", "passwd", "pwd",
			"token", "api_key", "apikey", "api_token",
			"secret", "auth", "authorization",
			"credit_card", "card_number", "cvv", "cvc",
			"ssn", "social_security",
			"private_key", "priv_key",
		}
	}

	patterns := make([]*regexp.Regexp, 0, len(sensitiveFields))
	for _, field := range sensitiveFields {
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(field) + `\b`)
		patterns = append(patterns, pattern)
	}

	return &Sanitizer{
		sensitiveFields: sensitiveFields,
		maskValue:       "***REDACTED***",
		patterns:        patterns,
	}
}

// MaskParams returns a copy of the parameter map with every value masked when
// the fragment references a sensitive field. Parameter names carry no field
// information, so a fragment touching a sensitive column masks all of its
// bindings rather than guessing which one is at risk.
func (s *Sanitizer) MaskParams(fragment string, params map[string]interface{}) map[string]interface{} {
	if len(params) == 0 || !s.containsSensitive(fragment) {
		return params
	}

	masked := make(map[string]interface{}, len(params))
	for name := range params {
		masked[name] = s.maskValue
	}
	return masked
}

// containsSensitive reports whether the fragment names any sensitive field.
func (s *Sanitizer) containsSensitive(fragment string) bool {
	lowered := strings.ToLower(fragment)
	for _, pattern := range s.patterns {
		if pattern.MatchString(lowered) {
			return true
		}
	}
	return false
}

// FormatParams renders a parameter map as a stable, log-friendly string with
// names in sorted order.
func (s *Sanitizer) FormatParams(params map[string]interface{}) string {
	if len(params) == 0 {
		return "{}"
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", name, params[name]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
