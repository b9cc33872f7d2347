// Package phone validates and normalizes phone numbers and OTP codes.
// All functions are pure; they are the first gate in both OTP handlers.
package phone

import "regexp"

var (
	e164Re   = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
	otpRe    = regexp.MustCompile(`^\d{6}$`)
	yemeniRe = regexp.MustCompile(`^(7|1)\d{8}$`)
	usRe     = regexp.MustCompile(`^\d{10}$`)
	digitRe  = regexp.MustCompile(`\D`)
)

// IsValidFormat reports whether s is a well-formed E.164 number: a leading
// '+', first digit 1-9, then 1 to 14 further digits.
func IsValidFormat(s string) bool {
	return e164Re.MatchString(s)
}

// IsValidOTPCode reports whether s is exactly 6 ASCII digits.
func IsValidOTPCode(s string) bool {
	return otpRe.MatchString(s)
}

// Normalize maps a raw user-entered number to E.164 for the send path.
// Bare Yemeni national numbers (9 digits starting 7 or 1) get +967, bare US
// numbers (10 digits) get +1, and already-valid E.164 input passes through
// untouched. Returns ok=false when no interpretation fits; the caller must
// reject rather than guess further.
func Normalize(raw string) (string, bool) {
	cleaned := digitRe.ReplaceAllString(raw, "")
	if yemeniRe.MatchString(cleaned) {
		return "+967" + cleaned, true
	}
	if usRe.MatchString(cleaned) {
		return "+1" + cleaned, true
	}
	if IsValidFormat(raw) {
		return raw, true
	}
	return "", false
}
