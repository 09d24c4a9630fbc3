// Package dian holds the pure calculators mandated by the tax authority:
// the identification check digit, the legal tax-rate brackets and the
// payment-means decision table. Everything here is deterministic and free of
// I/O so the rules can be tested in isolation.
package dian

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Prime weights for the modulus-11 check digit, applied to the identifier's
// digits enumerated from the right. Fifteen entries, so identifiers up to 15
// digits are supported.
var checkDigitWeights = [15]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

var (
	// ErrEmptyIdentification is returned when the identifier has no digits
	// after stripping separators.
	ErrEmptyIdentification = errors.New("empty_identification")

	// ErrIdentificationTooLong is returned instead of silently truncating an
	// identifier longer than the weight table.
	ErrIdentificationTooLong = errors.New("identification_too_long")
)

// CheckDigit computes the single verification digit for a tax identification
// number. Non-digit characters (dots, dashes, spaces) are stripped first.
// Identical input always yields identical output.
func CheckDigit(identification string) (int, error) {
	digits := onlyDigits(identification)
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrEmptyIdentification, identification)
	}
	if len(digits) > len(checkDigitWeights) {
		return 0, fmt.Errorf("%w: %d digits, max %d", ErrIdentificationTooLong, len(digits), len(checkDigitWeights))
	}

	sum := 0
	for i := 0; i < len(digits); i++ {
		d := int(digits[len(digits)-1-i] - '0')
		sum += d * checkDigitWeights[i]
	}

	remainder := sum % 11
	if remainder <= 1 {
		return remainder, nil
	}
	return 11 - remainder, nil
}

// SplitCheckDigit separates an identification string of the form
// "<number>-<digit>" into the bare number and its explicit check digit.
// When no dash suffix is present the digit is computed with CheckDigit.
func SplitCheckDigit(identification string) (string, int, error) {
	trimmed := strings.TrimSpace(identification)
	if idx := strings.LastIndex(trimmed, "-"); idx > 0 && idx == len(trimmed)-2 {
		suffix := trimmed[idx+1]
		if suffix >= '0' && suffix <= '9' {
			return onlyDigits(trimmed[:idx]), int(suffix - '0'), nil
		}
	}
	digits := onlyDigits(trimmed)
	dv, err := CheckDigit(digits)
	if err != nil {
		return "", 0, err
	}
	return digits, dv, nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
