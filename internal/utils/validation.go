package utils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Allow alphanumeric, underscore, hyphen, dot
	validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ValidateID validates that an ID is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// ParseStopID validates a stop id path parameter and converts it to the
// numeric id stops are keyed by.
func ParseStopID(id string) (int, error) {
	if err := ValidateID(id); err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, errors.New("id must be a number")
	}
	if n < 0 {
		return 0, errors.New("id must not be negative")
	}
	return n, nil
}

// ValidateDataType checks value against the allowed set.
func ValidateDataType(value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return errors.New("unknown data type, use one of: " + strings.Join(allowed, ", "))
}

// SanitizeInput removes HTML tags and other potentially dangerous content
func SanitizeInput(input string) string {
	sanitized := htmlTagPattern.ReplaceAllString(input, "")
	return strings.TrimSpace(sanitized)
}
