package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Email is a validated address stored as the trimmed original string with
// case preserved.
type Email struct {
	address string
}

const (
	maxEmailTotalLen  = 250
	maxEmailLocalLen  = 60
	maxEmailDomainLen = 190
)

var (
	emailLocalPattern  = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
	emailDomainPattern = regexp.MustCompile(`^[a-zA-Z0-9.-]+$`)
	emailLabelPattern  = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
)

// NewEmail validates raw and returns the canonical (trimmed) address.
func NewEmail(raw string) (Email, error) {
	address := strings.TrimSpace(raw)

	if address == "" {
		return Email{}, ErrEmailEmpty
	}
	if len(address) > maxEmailTotalLen {
		return Email{}, fmt.Errorf("%w: got %d", ErrEmailLength, len(address))
	}

	local, domain, found := strings.Cut(address, "@")
	if !found {
		return Email{}, ErrEmailFormat
	}

	if err := validateEmailLocal(local); err != nil {
		return Email{}, err
	}
	if err := validateEmailDomain(domain); err != nil {
		return Email{}, err
	}

	return Email{address: address}, nil
}

func validateEmailLocal(local string) error {
	if len(local) == 0 || len(local) > maxEmailLocalLen {
		return fmt.Errorf("%w: length must be 1-%d", ErrEmailLocalPart, maxEmailLocalLen)
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return fmt.Errorf("%w: cannot start or end with a dot", ErrEmailLocalPart)
	}
	if strings.Contains(local, "..") {
		return fmt.Errorf("%w: cannot contain consecutive dots", ErrEmailLocalPart)
	}
	if !emailLocalPattern.MatchString(local) {
		return fmt.Errorf("%w: invalid characters in %q", ErrEmailLocalPart, local)
	}
	return nil
}

func validateEmailDomain(domain string) error {
	if len(domain) == 0 || len(domain) > maxEmailDomainLen {
		return fmt.Errorf("%w: length must be 1-%d", ErrEmailDomainPart, maxEmailDomainLen)
	}
	if !emailDomainPattern.MatchString(domain) {
		return fmt.Errorf("%w: invalid characters in %q", ErrEmailDomainPart, domain)
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return fmt.Errorf("%w: must include at least one dot and a TLD", ErrEmailDomainPart)
	}
	for _, label := range labels {
		if label == "" {
			return fmt.Errorf("%w: empty label (consecutive dots)", ErrEmailDomainPart)
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return fmt.Errorf("%w: label %q cannot start or end with a hyphen", ErrEmailDomainPart, label)
		}
		if !emailLabelPattern.MatchString(label) {
			return fmt.Errorf("%w: invalid characters in label %q", ErrEmailDomainPart, label)
		}
	}
	return nil
}

// LocalPart returns the part before the '@'.
func (e Email) LocalPart() string {
	local, _, _ := strings.Cut(e.address, "@")
	return local
}

// Domain returns the part after the '@'.
func (e Email) Domain() string {
	_, domain, _ := strings.Cut(e.address, "@")
	return domain
}

// String returns the canonical address.
func (e Email) String() string {
	return e.address
}

// Equals reports canonical equality.
func (e Email) Equals(other Email) bool {
	return e.address == other.address
}
