package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// PhoneNumber is a Brazilian phone number normalized to the canonical form
// 55 + 2-digit DDD + 9-digit subscriber number. Eight-digit subscriber
// numbers are padded with a leading 9 (mobile numbering plan).
type PhoneNumber struct {
	number string
}

const maxPhoneInputLen = 30

var (
	phoneInputPattern     = regexp.MustCompile(`^[0-9\-()+]+$`)
	phoneCanonicalPattern = regexp.MustCompile(`^55[1-9][0-9]\d{9}$`)
)

// brazilDDDCodes is the fixed set of valid Brazilian area codes.
var brazilDDDCodes = map[string]struct{}{
	// São Paulo
	"11": {}, "12": {}, "13": {}, "14": {}, "15": {}, "16": {}, "17": {}, "18": {}, "19": {},
	// Rio de Janeiro
	"21": {}, "22": {}, "24": {},
	// Espírito Santo
	"27": {}, "28": {},
	// Minas Gerais
	"31": {}, "32": {}, "33": {}, "34": {}, "35": {}, "37": {}, "38": {},
	// Paraná
	"41": {}, "42": {}, "43": {}, "44": {}, "45": {}, "46": {},
	// Santa Catarina
	"47": {}, "48": {}, "49": {},
	// Rio Grande do Sul
	"51": {}, "53": {}, "54": {}, "55": {},
	// Distrito Federal
	"61": {},
	// Goiás
	"62": {}, "64": {},
	// Tocantins
	"63": {},
	// Mato Grosso
	"65": {}, "66": {},
	// Mato Grosso do Sul
	"67": {},
	// Acre
	"68": {},
	// Rondônia
	"69": {},
	// Bahia
	"71": {}, "73": {}, "74": {}, "75": {}, "77": {},
	// Sergipe
	"79": {},
	// Pernambuco
	"81": {}, "87": {},
	// Alagoas
	"82": {},
	// Paraíba
	"83": {},
	// Rio Grande do Norte
	"84": {},
	// Ceará
	"85": {}, "88": {},
	// Piauí
	"86": {}, "89": {},
	// Pará
	"91": {}, "93": {}, "94": {},
	// Amazonas
	"92": {}, "97": {},
	// Roraima
	"95": {},
	// Amapá
	"96": {},
	// Maranhão
	"98": {}, "99": {},
}

// NewPhoneNumber validates and normalizes raw to the canonical form.
// Input may carry punctuation ("(", ")", "-", "+") and may omit the 55
// country code; the subscriber number may have 8 or 9 digits.
func NewPhoneNumber(raw string) (PhoneNumber, error) {
	cleaned := strings.TrimSpace(raw)

	if cleaned == "" {
		return PhoneNumber{}, ErrPhoneEmpty
	}
	if !phoneInputPattern.MatchString(cleaned) {
		return PhoneNumber{}, fmt.Errorf("%w: %q", ErrPhoneCharacters, cleaned)
	}
	if len(cleaned) > maxPhoneInputLen {
		return PhoneNumber{}, fmt.Errorf("%w: got %d", ErrPhoneLength, len(cleaned))
	}

	digits := stripNonDigits(cleaned)

	if !strings.HasPrefix(digits, "55") {
		digits = "55" + digits
	}

	if len(digits) < 4 {
		return PhoneNumber{}, fmt.Errorf("%w: %q", ErrPhoneDDD, digits[2:])
	}

	ddd := digits[2:4]
	if _, ok := brazilDDDCodes[ddd]; !ok {
		return PhoneNumber{}, fmt.Errorf("%w: %q", ErrPhoneDDD, ddd)
	}

	subscriber := digits[4:]
	if len(subscriber) < 8 || len(subscriber) > 9 {
		return PhoneNumber{}, fmt.Errorf("%w: got %d", ErrPhoneSubscriberLength, len(subscriber))
	}
	if len(subscriber) == 8 {
		subscriber = "9" + subscriber
	}

	number := "55" + ddd + subscriber
	if !phoneCanonicalPattern.MatchString(number) {
		return PhoneNumber{}, fmt.Errorf("%w: %q", ErrPhoneFormat, number)
	}

	return PhoneNumber{number: number}, nil
}

// String returns the canonical digit form (e.g. "5511987654321").
func (p PhoneNumber) String() string {
	return p.number
}

// Formatted returns the display form "+55 (11) 98765-4321".
func (p PhoneNumber) Formatted() string {
	return fmt.Sprintf("+%s (%s) %s-%s", p.number[:2], p.number[2:4], p.number[4:9], p.number[9:])
}

// Equals reports canonical equality.
func (p PhoneNumber) Equals(other PhoneNumber) bool {
	return p.number == other.number
}
