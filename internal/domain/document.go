package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Document wraps a Brazilian taxpayer identifier: CPF for individuals
// (11 digits) or CNPJ for legal entities (14 digits). The stored value is
// always the digits-only canonical form; punctuation is a derived view.
type Document struct {
	value string
}

var documentInputPattern = regexp.MustCompile(`^[0-9./-]+$`)

// cnpjWeights1 and cnpjWeights2 are the fixed weight tables for the first
// and second CNPJ check digits.
var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// NewDocument validates raw and returns the canonical digits-only document.
// Accepted input contains digits and the separators "." "/" "-"; the digit
// count selects the CPF or CNPJ check-digit algorithm.
func NewDocument(raw string) (Document, error) {
	if !documentInputPattern.MatchString(raw) {
		return Document{}, fmt.Errorf("%w: %q", ErrDocumentCharacters, raw)
	}

	digits := stripNonDigits(raw)

	switch len(digits) {
	case 11:
		if !validCPF(digits) {
			return Document{}, ErrDocumentCPFChecksum
		}
	case 14:
		if !validCNPJ(digits) {
			return Document{}, ErrDocumentCNPJChecksum
		}
	default:
		return Document{}, fmt.Errorf("%w: got %d digits", ErrDocumentLength, len(digits))
	}

	return Document{value: digits}, nil
}

// validCPF checks the two CPF check digits. Sequences of one repeated digit
// are arithmetically valid but issued to nobody, so they are rejected too.
func validCPF(cpf string) bool {
	if len(cpf) != 11 || allSameDigits(cpf) {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += digitAt(cpf, i) * (10 - i)
	}
	first := (sum * 10) % 11
	if first >= 10 {
		first = 0
	}
	if first != digitAt(cpf, 9) {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += digitAt(cpf, i) * (11 - i)
	}
	second := (sum * 10) % 11
	if second >= 10 {
		second = 0
	}
	return second == digitAt(cpf, 10)
}

// validCNPJ checks the two CNPJ check digits using the 12- and 13-weight tables.
func validCNPJ(cnpj string) bool {
	if len(cnpj) != 14 || allSameDigits(cnpj) {
		return false
	}

	sum := 0
	for i := 0; i < 12; i++ {
		sum += digitAt(cnpj, i) * cnpjWeights1[i]
	}
	first := 11 - sum%11
	if sum%11 < 2 {
		first = 0
	}
	if first != digitAt(cnpj, 12) {
		return false
	}

	sum = 0
	for i := 0; i < 13; i++ {
		sum += digitAt(cnpj, i) * cnpjWeights2[i]
	}
	second := 11 - sum%11
	if sum%11 < 2 {
		second = 0
	}
	return second == digitAt(cnpj, 13)
}

// IsCPF reports whether the document is an individual taxpayer identifier.
func (d Document) IsCPF() bool {
	return len(d.value) == 11
}

// IsCNPJ reports whether the document is a legal-entity identifier.
func (d Document) IsCNPJ() bool {
	return len(d.value) == 14
}

// String returns the canonical digits-only form.
func (d Document) String() string {
	return d.value
}

// Equals reports canonical equality.
func (d Document) Equals(other Document) bool {
	return d.value == other.value
}

// Formatted returns the punctuated display form
// (XXX.XXX.XXX-XX for CPF, XX.XXX.XXX/XXXX-XX for CNPJ).
func (d Document) Formatted() string {
	switch {
	case d.IsCPF():
		return fmt.Sprintf("%s.%s.%s-%s", d.value[:3], d.value[3:6], d.value[6:9], d.value[9:])
	case d.IsCNPJ():
		return fmt.Sprintf("%s.%s.%s/%s-%s", d.value[:2], d.value[2:5], d.value[5:8], d.value[8:12], d.value[12:])
	default:
		return d.value
	}
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSameDigits(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func digitAt(s string, i int) int {
	return int(s[i] - '0')
}
