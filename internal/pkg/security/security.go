// Package security provides secret masking helpers for aic.
package security

import (
	"regexp"
	"strings"
)

const (
	// tokenMask is appended to the visible prefix of long tokens.
	tokenMask = "•••••"
	// shortTokenMask replaces tokens too short to reveal a prefix.
	shortTokenMask = "•••••••"
	visiblePrefix  = 4
)

// MaskToken masks an API token for display. Tokens longer than eight
// characters keep their first four characters; shorter ones are fully hidden.
// The mask length does not depend on the token length.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	runes := []rune(token)
	if len(runes) > 2*visiblePrefix {
		return string(runes[:visiblePrefix]) + tokenMask
	}
	return shortTokenMask
}

// IsSecretKey reports whether a configuration key holds a credential.
func IsSecretKey(key string) bool {
	key = strings.ToLower(key)
	return strings.Contains(key, "token") || strings.Contains(key, "api_key") || strings.Contains(key, "secret")
}

// MaskValue masks value when key names a credential.
func MaskValue(key, value string) string {
	if IsSecretKey(key) {
		return MaskToken(value)
	}
	return value
}

var logPatterns = []struct {
	regex       *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`sk-[a-zA-Z0-9_-]{16,}`), "sk-****"},
	{regexp.MustCompile(`Bearer\s+[A-Za-z0-9._~+/=-]+`), "Bearer ****"},
	{regexp.MustCompile(`(?i)(api[_-]?token|api[_-]?key|apikey|secret[_-]?key)(\s*[:=]\s*)["']?[A-Za-z0-9._-]+["']?`), "${1}${2}****"},
}

// SanitizeForLogging masks API keys, bearer tokens and key=value secrets in s.
func SanitizeForLogging(s string) string {
	for _, p := range logPatterns {
		s = p.regex.ReplaceAllString(s, p.replacement)
	}
	return s
}
