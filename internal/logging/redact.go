package logging

import (
	"log/slog"
	"strings"
)

const redactedValue = "[redacted]"

var secretKeySuffixes = []string{"token", "authorization", "password", "secret"}

// isSecretKey reports whether an attribute key names a credential.
func isSecretKey(key string) bool {
	key = strings.ToLower(key)
	for _, suffix := range secretKeySuffixes {
		if strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}

// redact masks non-empty credential values. Boolean presence flags such as
// github_token_present keep their value.
func redact(attr slog.Attr) slog.Attr {
	if !isSecretKey(attr.Key) || attr.Value.Kind() == slog.KindBool {
		return attr
	}
	if attr.Value.Kind() == slog.KindString && attr.Value.String() == "" {
		return attr
	}
	attr.Value = slog.StringValue(redactedValue)
	return attr
}
