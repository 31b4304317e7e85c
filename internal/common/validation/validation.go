package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxNameLength = 120

	MinPhoneDigits = 10
	MaxPhoneDigits = 11

	MaxPageSize     = 100
	DefaultPageSize = 10
)

// NormalizeName trims spaces and collapses inner whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ValidateName reports whether a normalized name can be stored.
func ValidateName(name string) bool {
	return name != "" && utf8.RuneCountInString(name) <= MaxNameLength
}

// NormalizePhone keeps only the digits of phone, e.g. "(11) 99988-7766" -> "11999887766".
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if unicode.IsDigit(r) && r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhone accepts Brazilian numbers with area code: 10 or 11 digits.
func ValidatePhone(digits string) bool {
	return len(digits) >= MinPhoneDigits && len(digits) <= MaxPhoneDigits
}

// IsUUID reports whether id is a canonical UUID.
func IsUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// NormalizePage clamps limit to (0, MaxPageSize] and offset to >= 0.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
