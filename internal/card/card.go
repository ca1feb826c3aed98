// Package card holds the pure payment-instrument checks of the transaction
// verification engine. No I/O happens here.
package card

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	cardNumberLength = 16
	cvvLength        = 3
	// A card may not carry more than 3 years of remaining validity.
	maxValidityDays = 1095
)

// Digits strips every non-digit rune from raw.
func Digits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateNumber checks card number integrity with the Luhn check-digit
// algorithm. The number must carry exactly 16 digits.
func ValidateNumber(raw string) bool {
	digits := Digits(raw)
	if len(digits) != cardNumberLength {
		return false
	}

	nums := make([]int, len(digits))
	for i, r := range digits {
		nums[i] = int(r - '0')
	}

	checkDigit := nums[len(nums)-1]
	body := nums[:len(nums)-1]

	// Walk the body right-to-left, doubling every value at an even position
	// of the reversed sequence.
	sum := checkDigit
	for i := 0; i < len(body); i++ {
		v := body[len(body)-1-i]
		if i%2 == 0 {
			v *= 2
			if v > 9 {
				v -= 9
			}
		}
		sum += v
	}
	return sum%10 == 0
}

// ValidateVendor accepts only the two supported issuer families: Visa
// (prefix 4) and MasterCard (prefix 51 or 55).
func ValidateVendor(raw string) bool {
	digits := Digits(raw)
	if len(digits) < 2 {
		return false
	}
	isVisa := digits[0] == '4'
	isMastercard := digits[0] == '5' && (digits[1] == '1' || digits[1] == '5')
	return isVisa || isMastercard
}

// ValidateExpiration checks an "MM/YY" or "MM/YYYY" expiration against the
// current date.
func ValidateExpiration(text string) bool {
	return ValidateExpirationAt(text, time.Now())
}

// ValidateExpirationAt is ValidateExpiration with an explicit clock. The card
// is valid until the first day of the month after its expiration month, and
// may not carry more than maxValidityDays of remaining validity.
func ValidateExpirationAt(text string, now time.Time) bool {
	parts := strings.Split(text, "/")
	if len(parts) != 2 {
		return false
	}
	month := strings.TrimSpace(parts[0])
	year := strings.TrimSpace(parts[1])

	if len(month) == 1 {
		month = "0" + month
	}
	if len(year) == 2 {
		year = "20" + year
	}
	if len(month) != 2 || len(year) != 4 {
		return false
	}

	m, err := strconv.Atoi(month)
	if err != nil {
		return false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return false
	}
	if m < 1 || m > 12 {
		return false
	}

	present := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	// time.Date normalizes month 13 into January of the next year.
	firstDayAfterExpiry := time.Date(y, time.Month(m)+1, 1, 0, 0, 0, 0, time.UTC)

	if !present.Before(firstDayAfterExpiry) {
		return false
	}
	remaining := int(firstDayAfterExpiry.Sub(present).Hours() / 24)
	return remaining <= maxValidityDays
}

// ValidateCVV requires exactly 3 decimal digits.
func ValidateCVV(cvv string) bool {
	if len(cvv) != cvvLength {
		return false
	}
	for _, r := range cvv {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
