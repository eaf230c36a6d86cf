package directory

import (
	"fmt"
	"strings"
	"time"

	"kids-carpool/internal/domain/carpool"
)

// Child is a parent's child profile, referenced by ride requests.
type Child struct {
	ID        string
	CreatedAt time.Time

	ParentID string
	SchoolID string

	Name  string
	Age   int
	Grade string

	EmergencyContactName  string
	EmergencyContactPhone string
	MedicalInfo           string
	SpecialNeeds          string
}

var (
	ErrParentRequired    = fmt.Errorf("%w: parent id is required", carpool.ErrValidation)
	ErrChildNameRequired = fmt.Errorf("%w: child name is required", carpool.ErrValidation)
	ErrChildAgeInvalid   = fmt.Errorf("%w: child age must be between 1 and 18", carpool.ErrValidation)
)

// NewChild validates and constructs a child profile.
func NewChild(parentID, schoolID, name string, age int, grade string) (*Child, error) {
	if parentID = strings.TrimSpace(parentID); parentID == "" {
		return nil, ErrParentRequired
	}
	if name = strings.TrimSpace(name); name == "" {
		return nil, ErrChildNameRequired
	}
	if age < 1 || age > 18 {
		return nil, ErrChildAgeInvalid
	}

	return &Child{
		CreatedAt: time.Now().UTC(),
		ParentID:  parentID,
		SchoolID:  strings.TrimSpace(schoolID),
		Name:      name,
		Age:       age,
		Grade:     strings.TrimSpace(grade),
	}, nil
}
