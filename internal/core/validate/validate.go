// Package validate holds format checks for contact and account fields.
package validate

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

var (
	phoneNoise    = regexp.MustCompile(`[\s\-()]`)
	mobilePhone   = regexp.MustCompile(`^(?:\+94|0)?7[0-9]{8}$`)
	landlinePhone = regexp.MustCompile(`^(?:\+94|0)?[1-689][0-9]{8}$`)
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// NormalizePhone strips spaces, dashes and parentheses.
func NormalizePhone(phone string) string {
	return phoneNoise.ReplaceAllString(strings.TrimSpace(phone), "")
}

// Phone reports whether phone is a Sri Lankan mobile or landline number.
func Phone(phone string) bool {
	p := NormalizePhone(phone)
	return mobilePhone.MatchString(p) || landlinePhone.MatchString(p)
}

// FullName returns a message describing why name is unacceptable, or "".
func FullName(name string) string {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 {
		return "must be at least 2 characters"
	}

	var digits, total int
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits == total {
		return "cannot be only numbers"
	}
	if digits*10 > total*7 {
		return "contains too many numbers"
	}
	return ""
}

// Email reports whether s is a bare email address.
func Email(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && addr.Name == ""
}

// Password returns a message describing why pw is unacceptable, or "".
func Password(pw string) string {
	if len(pw) < MinPasswordLength {
		return "must be at least 6 characters"
	}
	return ""
}
