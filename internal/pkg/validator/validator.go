package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	uuidRegex  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects multiple field failures for one request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(msgs, "; ")
}

// ToMap converts the errors to a field -> message map for API responses.
func (v ValidationErrors) ToMap() map[string]string {
	m := make(map[string]string, len(v))
	for _, e := range v {
		if _, ok := m[e.Field]; !ok {
			m[e.Field] = e.Message
		}
	}
	return m
}

// Add appends a failure for the given field.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// HasErrors reports whether any failure was recorded.
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// IsEmpty reports whether s contains no non-whitespace characters.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidUUID reports whether s is a canonical UUID string.
func IsValidUUID(s string) bool {
	return uuidRegex.MatchString(s)
}

// IsValidDate parses s as a calendar date in YYYY-MM-DD form.
func IsValidDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	return t, err == nil
}

// IsValidClock reports whether s is a wall-clock time in HH:MM form.
func IsValidClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// IsValidMonth reports whether s is a month in YYYY-MM form.
func IsValidMonth(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}

// IsInSlice reports whether value appears in allowed.
func IsInSlice(value string, allowed []string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

// MinLength reports whether s has at least n characters.
func MinLength(s string, n int) bool {
	return len(s) >= n
}
