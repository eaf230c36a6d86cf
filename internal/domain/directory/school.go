package directory

import (
	"fmt"
	"strings"
	"time"

	"kids-carpool/internal/domain/carpool"
)

// School is a directory entry rides and children point at.
type School struct {
	ID        string
	CreatedAt time.Time

	Name     string
	Address  string
	District string
}

var ErrSchoolNameRequired = fmt.Errorf("%w: school name is required", carpool.ErrValidation)

// NewSchool validates and constructs a school entry.
func NewSchool(name, address, district string) (*School, error) {
	if name = strings.TrimSpace(name); name == "" {
		return nil, ErrSchoolNameRequired
	}
	return &School{
		CreatedAt: time.Now().UTC(),
		Name:      name,
		Address:   strings.TrimSpace(address),
		District:  strings.TrimSpace(district),
	}, nil
}
