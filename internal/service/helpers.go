package service

import (
	"strings"
	"unicode/utf8"

	"github.com/maheshrc27/tweetgenie/internal/models"
)

// ValidateContent enforces the platform limit, counted in characters.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrContentEmpty
	}
	if utf8.RuneCountInString(content) > models.MaxTweetLength {
		return ErrContentTooLong
	}
	return nil
}

// isValidKey rejects empty keys and the placeholders shipped in example env files.
func isValidKey(key string) bool {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "sk-...") || strings.HasPrefix(trimmed, "your-") {
		return false
	}
	return true
}

func firstValidKey(keys ...string) string {
	for _, k := range keys {
		if isValidKey(k) {
			return strings.TrimSpace(k)
		}
	}
	return ""
}
