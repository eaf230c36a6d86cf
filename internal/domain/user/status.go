package user

import (
	"fmt"
	"strings"

	"kids-carpool/internal/domain/carpool"
)

// VerificationStatus tracks the background screening of a parent account.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

var ErrInvalidVerification = fmt.Errorf("%w: invalid verification status", carpool.ErrValidation)

// ParseVerificationStatus normalizes and validates a verification status string.
func ParseVerificationStatus(s string) (VerificationStatus, error) {
	vs := VerificationStatus(strings.ToUpper(strings.TrimSpace(s)))
	if vs.Valid() {
		return vs, nil
	}
	return "", ErrInvalidVerification
}

// Valid reports whether vs is one of the allowed constants.
func (vs VerificationStatus) Valid() bool {
	switch vs {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	default:
		return false
	}
}

// String returns the string representation of the VerificationStatus.
func (vs VerificationStatus) String() string {
	return string(vs)
}

// IsVerified reports whether the account cleared screening.
func (vs VerificationStatus) IsVerified() bool { return vs == VerificationVerified }
