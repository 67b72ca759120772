package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("x"))
	assert.False(t, IsEmpty(" x "))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("anna.rossi@example.com"))
	assert.True(t, IsValidEmail("a+b@sub.domain.it"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("missing@tld"))
	assert.False(t, IsValidEmail("@example.com"))
}

func TestIsValidDate(t *testing.T) {
	parsed, ok := IsValidDate("2024-03-10")
	assert.True(t, ok)
	assert.Equal(t, 2024, parsed.Year())
	assert.Equal(t, time.March, parsed.Month())

	_, ok = IsValidDate("2024-02-29")
	assert.True(t, ok)
	_, ok = IsValidDate("2023-02-29")
	assert.False(t, ok)
	_, ok = IsValidDate("10-03-2024")
	assert.False(t, ok)
	_, ok = IsValidDate("2024-3-10")
	assert.False(t, ok)
	_, ok = IsValidDate("")
	assert.False(t, ok)
}

func TestIsValidClock(t *testing.T) {
	assert.True(t, IsValidClock("00:00"))
	assert.True(t, IsValidClock("23:59"))
	assert.True(t, IsValidClock("09:30"))
	assert.False(t, IsValidClock("24:00"))
	assert.False(t, IsValidClock("9:30"))
	assert.False(t, IsValidClock("09:30:00"))
	assert.False(t, IsValidClock(""))
}

func TestIsValidMonth(t *testing.T) {
	assert.True(t, IsValidMonth("2024-03"))
	assert.False(t, IsValidMonth("2024-13"))
	assert.False(t, IsValidMonth("2024"))
}

func TestIsInSlice(t *testing.T) {
	allowed := []string{"hourly", "minute", "daily"}
	assert.True(t, IsInSlice("minute", allowed))
	assert.False(t, IsInSlice("weekly", allowed))
	assert.False(t, IsInSlice("", allowed))
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.False(t, errs.HasErrors())

	errs.Add("email", "email is required")
	errs.Add("date", "date must be in YYYY-MM-DD format")

	assert.True(t, errs.HasErrors())
	assert.Contains(t, errs.Error(), "email is required")
	assert.Contains(t, errs.Error(), "date must be")

	m := errs.ToMap()
	assert.Len(t, m, 2)
	assert.Equal(t, "email is required", m["email"])
}
