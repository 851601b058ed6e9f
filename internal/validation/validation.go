// Package validation holds the format checks applied to form input before
// anything is forwarded or stored.
package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minEmailLength = 6
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

// ValidEmail reports whether s looks like an email address: longer than five
// characters once trimmed and containing both '@' and '.'. The domain is not
// checked any further.
func ValidEmail(s string) bool {
	e := strings.TrimSpace(s)
	if utf8.RuneCountInString(e) < minEmailLength {
		return false
	}
	return strings.Contains(e, "@") && strings.Contains(e, ".")
}

// ValidPhone reports whether s holds between 10 and 15 digits. Spaces,
// dashes, parentheses and any other non-digit characters are ignored.
func ValidPhone(s string) bool {
	n := DigitCount(s)
	return n >= minPhoneDigits && n <= maxPhoneDigits
}

// DigitCount returns how many decimal digits s contains. Only Unicode Nd
// digits count, so superscripts such as '²' are ignored.
func DigitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
