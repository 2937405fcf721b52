package usecase

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"pizzahunt/internal/domain"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// isValidEmail is a basic shape check: one '@', a dot in the domain, no empty parts.
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	domainParts := strings.Split(parts[1], ".")
	return len(domainParts) >= 2 && domainParts[0] != "" && domainParts[len(domainParts)-1] != ""
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return invalid("password must be at least 8 characters long")
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasUpper {
		return invalid("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return invalid("password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return invalid("password must contain at least one digit")
	}
	return nil
}

// requireText trims value and checks it is present and at most max runes long.
func requireText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid("%s is required", field)
	}
	if max > 0 && utf8.RuneCountInString(value) > max {
		return "", invalid("%s must be at most %d characters", field, max)
	}
	return value, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
