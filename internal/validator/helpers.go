package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	RgxEmail       = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+\\/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")
	// RgxPhoneNumber matches a 10-digit Indian mobile number.
	RgxPhoneNumber = regexp.MustCompile(`^[6-9]\d{9}$`)

	// RgxPanNumber matches the 10-character PAN card format: five letters,
	// four digits, one letter.
	RgxPanNumber = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

	// RgxAadharNumber matches the 12-digit Aadhar number format.
	RgxAadharNumber = regexp.MustCompile(`^\d{12}$`)

	RgxPincode = regexp.MustCompile(`^\d{6}$`)
)

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

func MinRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) >= n
}

func MaxRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

func IsEmail(value string) bool {
	if len(value) > 254 {
		return false
	}

	return RgxEmail.MatchString(value)
}

func In(value string, safelist ...string) bool {
	for i := range safelist {
		if value == safelist[i] {
			return true
		}
	}
	return false
}
