package utils

import (
	"regexp"
	"strings"
)

var (
	// Exactly ten digits, no separators
	mobileRegex = regexp.MustCompile(`^[0-9]{10}$`)
	// Something, an @, something, a dot, something. Deliberately loose.
	emailRegex = regexp.MustCompile(`\S+@\S+\.\S+`)
)

// ValidateMobile reports whether phone is a ten-digit mobile number
func ValidateMobile(phone string) bool {
	return mobileRegex.MatchString(phone)
}

// ValidateEmail reports whether email has a local part, an @ and a dotted domain
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// FormatMobileForDisplay formats a ten-digit number as XXX-XXX-XXXX
func FormatMobileForDisplay(phone string) string {
	if !ValidateMobile(phone) {
		return phone
	}
	return phone[:3] + "-" + phone[3:6] + "-" + phone[6:]
}

// MaskContact hides most of an email address or phone number
func MaskContact(contact string) string {
	if at := strings.Index(contact, "@"); at > 0 {
		return contact[:1] + "***" + contact[at:]
	}
	if ValidateMobile(contact) {
		formatted := FormatMobileForDisplay(contact)
		return formatted[:4] + "***" + formatted[7:]
	}
	if len(contact) > 6 {
		return contact[:3] + "***" + contact[len(contact)-3:]
	}
	return "***"
}
