package service

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/openshelf/book-catalog/internal/core/domain"
)

const minPasswordLen = 8

// commonPasswords is a short denylist of the most frequently leaked
// passwords. Entries are compared case-insensitively.
var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"12345678":   {},
	"123456789":  {},
	"1234567890": {},
	"qwerty123":  {},
	"qwertyuiop": {},
	"iloveyou":   {},
	"admin123":   {},
	"letmein1":   {},
	"welcome1":   {},
	"sunshine":   {},
	"football":   {},
	"baseball":   {},
	"dragon123":  {},
	"monkey123":  {},
	"superman":   {},
	"trustno1":   {},
}

// checkPasswordPolicy enforces the registration password rules: minimum
// length, not entirely numeric, not a known common password, and not too
// similar to the username or the email local part.
func checkPasswordPolicy(password, username, email string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}
	if isEntirelyNumeric(password) {
		return fmt.Errorf("%w: password cannot be entirely numeric", domain.ErrValidation)
	}
	if _, found := commonPasswords[strings.ToLower(password)]; found {
		return fmt.Errorf("%w: password is too common", domain.ErrValidation)
	}
	if tooSimilar(password, username) || tooSimilar(password, emailLocalPart(email)) {
		return fmt.Errorf("%w: password is too similar to the username or email", domain.ErrValidation)
	}
	return nil
}

func isEntirelyNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

// tooSimilar reports whether one string contains the other,
// case-insensitively. Attributes shorter than 4 runes are ignored to avoid
// rejecting passwords over trivial overlaps.
func tooSimilar(password, attribute string) bool {
	attribute = strings.ToLower(strings.TrimSpace(attribute))
	if len(attribute) < 4 {
		return false
	}
	p := strings.ToLower(password)
	return strings.Contains(p, attribute) || strings.Contains(attribute, p)
}

func emailLocalPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
