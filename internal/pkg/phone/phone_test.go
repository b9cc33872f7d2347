package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidFormat(t *testing.T) {
	assert.True(t, IsValidFormat("+967771234567"))
	assert.True(t, IsValidFormat("+12025550123"))
	assert.True(t, IsValidFormat("+12")) // minimum: one digit after the country digit

	assert.False(t, IsValidFormat("0771234567"))       // no leading +
	assert.False(t, IsValidFormat("+0771234567"))      // leading digit 0 disallowed
	assert.False(t, IsValidFormat("+1"))               // too short
	assert.False(t, IsValidFormat("+1234567890123456")) // 16 digits, too long
	assert.False(t, IsValidFormat("+96777a234567"))
	assert.False(t, IsValidFormat(""))
}

func TestIsValidOTPCode(t *testing.T) {
	assert.True(t, IsValidOTPCode("123456"))
	assert.True(t, IsValidOTPCode("000000"))

	assert.False(t, IsValidOTPCode("12345"))
	assert.False(t, IsValidOTPCode("1234567"))
	assert.False(t, IsValidOTPCode("12a456"))
	assert.False(t, IsValidOTPCode(""))
}

func TestNormalize_Yemeni(t *testing.T) {
	got, ok := Normalize("771234567")
	assert.True(t, ok)
	assert.Equal(t, "+967771234567", got)

	// punctuation is stripped before matching
	got, ok = Normalize("77-123-45-67 ")
	assert.True(t, ok)
	assert.Equal(t, "+967771234567", got)
}

func TestNormalize_US(t *testing.T) {
	got, ok := Normalize("2025550123")
	assert.True(t, ok)
	assert.Equal(t, "+12025550123", got)

	got, ok = Normalize("(202) 555-0123")
	assert.True(t, ok)
	assert.Equal(t, "+12025550123", got)
}

func TestNormalize_AlreadyE164(t *testing.T) {
	got, ok := Normalize("+4915112345678")
	assert.True(t, ok)
	assert.Equal(t, "+4915112345678", got)
}

func TestNormalize_Unrecognized(t *testing.T) {
	_, ok := Normalize("12345")
	assert.False(t, ok)

	_, ok = Normalize("not a number")
	assert.False(t, ok)
}
