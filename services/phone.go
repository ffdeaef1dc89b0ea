package services

import (
	"strings"
)

// Phone number handling for Thai mobile numbers. Customers may type any of
// "0812345678", "66812345678", "081-234-5678" or "+66 81 234 5678"; the
// database always stores the domestic form "0812345678".

func digitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidMobileNumber reports whether the input is a Thai mobile number in
// domestic (10 digit), international (66 prefix) or bare (9 digit, leading 0
// omitted) form. Thai mobile prefixes are 06, 08 and 09.
func IsValidMobileNumber(phone string) bool {
	clean := digitsOnly(phone)

	mobilePrefix := func(d byte) bool {
		return d == '6' || d == '8' || d == '9'
	}

	switch {
	case len(clean) == 10 && clean[0] == '0':
		return mobilePrefix(clean[1])
	case len(clean) == 11 && strings.HasPrefix(clean, "66"):
		return mobilePrefix(clean[2])
	case len(clean) == 9:
		return mobilePrefix(clean[0])
	}
	return false
}

// NormalizePhoneNumber converts any accepted input form to the domestic
// "0XXXXXXXXX" form used as the unique key in the users table.
func NormalizePhoneNumber(phone string) string {
	clean := digitsOnly(phone)

	if len(clean) == 11 && strings.HasPrefix(clean, "66") {
		return "0" + clean[2:]
	}
	if len(clean) == 9 {
		return "0" + clean
	}
	return clean
}

// FormatPhoneForSMS converts a phone number to the international "66..." form
// the SMS provider expects.
func FormatPhoneForSMS(phone string) string {
	clean := digitsOnly(phone)

	if strings.HasPrefix(clean, "0") {
		return "66" + clean[1:]
	}
	if !strings.HasPrefix(clean, "66") && len(clean) == 9 {
		return "66" + clean
	}
	return clean
}
