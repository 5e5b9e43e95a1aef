package validation

import "strings"

// IsValidPassword reports whether the password meets the account rules:
// at least 7 characters, a digit, a letter, one of @#$%&*!? and no spaces.
func IsValidPassword(password string) bool {
	if len(password) < 7 || strings.ContainsRune(password, ' ') {
		return false
	}

	var hasDigit, hasLetter, hasSymbol bool

	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		case strings.ContainsRune("@#$%&*!?", r):
			hasSymbol = true
		}
	}

	return hasDigit && hasLetter && hasSymbol
}

// IsValidEmail mirrors the loose client-side rule: non-empty, no spaces,
// contains an @.
func IsValidEmail(email string) bool {
	return len(email) >= 2 &&
		!strings.ContainsRune(email, ' ') &&
		strings.ContainsRune(email, '@')
}
