package channels

import (
	"fmt"
	"strings"
)

// NormalizeE164 formats a phone number as E.164. Bare ten-digit numbers get
// the default country code prefixed; numbers already carrying it are kept.
func NormalizeE164(phone, defaultCountryCode string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	if cleaned == "" {
		return "", fmt.Errorf("phone number %q has no digits", phone)
	}

	switch {
	case len(cleaned) == 10:
		return "+" + defaultCountryCode + cleaned, nil
	case strings.HasPrefix(cleaned, defaultCountryCode) && len(cleaned) == len(defaultCountryCode)+10:
		return "+" + cleaned, nil
	case strings.HasPrefix(phone, "+") && len(cleaned) >= 8 && len(cleaned) <= 15:
		return "+" + cleaned, nil
	default:
		return "", fmt.Errorf("phone number %q is not a valid subscriber number", phone)
	}
}
