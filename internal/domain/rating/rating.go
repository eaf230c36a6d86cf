package rating

import (
	"fmt"
	"strings"
	"time"

	"kids-carpool/internal/domain/carpool"
)

// Rating is an immutable record of one user scoring another for a shared
// ride. Stored rows are the durable source of truth; the per-user aggregate
// is derived from them.
type Rating struct {
	ID        string
	CreatedAt time.Time

	RaterID string
	RatedID string
	RideID  string

	Score   int
	Comment string
}

const (
	MinScore = 1
	MaxScore = 5
)

var (
	ErrRaterRequired   = fmt.Errorf("%w: rater id is required", carpool.ErrValidation)
	ErrRatedRequired   = fmt.Errorf("%w: rated user id is required", carpool.ErrValidation)
	ErrRideRequired    = fmt.Errorf("%w: ride id is required", carpool.ErrValidation)
	ErrScoreOutOfRange = fmt.Errorf("%w: score must be between 1 and 5", carpool.ErrValidation)
	ErrSelfRating      = fmt.Errorf("%w: users cannot rate themselves", carpool.ErrValidation)
)

// NewRating validates and constructs a rating record.
func NewRating(raterID, ratedID, rideID string, score int, comment string) (*Rating, error) {
	if raterID = strings.TrimSpace(raterID); raterID == "" {
		return nil, ErrRaterRequired
	}
	if ratedID = strings.TrimSpace(ratedID); ratedID == "" {
		return nil, ErrRatedRequired
	}
	if rideID = strings.TrimSpace(rideID); rideID == "" {
		return nil, ErrRideRequired
	}
	if raterID == ratedID {
		return nil, ErrSelfRating
	}
	if score < MinScore || score > MaxScore {
		return nil, ErrScoreOutOfRange
	}

	return &Rating{
		CreatedAt: time.Now().UTC(),
		RaterID:   raterID,
		RatedID:   ratedID,
		RideID:    rideID,
		Score:     score,
		Comment:   strings.TrimSpace(comment),
	}, nil
}
