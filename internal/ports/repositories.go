package ports

import (
	"context"
	"time"

	"kids-carpool/internal/domain/directory"
	"kids-carpool/internal/domain/rating"
	"kids-carpool/internal/domain/request"
	"kids-carpool/internal/domain/ride"
	"kids-carpool/internal/domain/user"
)

// UnitOfWork manages transactions across multiple repository operations.
// The status write on a request and the seat write on its ride always run
// under a single WithinTx scope.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RideRepository persists rides. TryReserveSeat and ReleaseSeat are the only
// seat-count mutators; each is a single atomic conditional update, never a
// separate read followed by a write.
type RideRepository interface {
	Create(ctx context.Context, r *ride.Ride) error
	GetByID(ctx context.Context, id string) (*ride.Ride, error)
	ListByDriver(ctx context.Context, driverID string) ([]*ride.Ride, error)
	ListBySchool(ctx context.Context, schoolID string) ([]*ride.Ride, error)
	ListByStatus(ctx context.Context, status ride.Status) ([]*ride.Ride, error)
	UpdateStatus(ctx context.Context, id string, status ride.Status, ts time.Time) error

	// TryReserveSeat decrements available_seats iff the ride is ACTIVE and a
	// seat is free. Returns false (no error) when nothing was reserved.
	TryReserveSeat(ctx context.Context, id string) (bool, error)
	// ReleaseSeat increments available_seats iff it is below total_seats.
	// Returns false when all seats were already free.
	ReleaseSeat(ctx context.Context, id string) (bool, error)
}

// RideRequestRepository persists ride requests.
type RideRequestRepository interface {
	Create(ctx context.Context, req *request.Request) error
	GetByID(ctx context.Context, id string) (*request.Request, error)
	ListByRide(ctx context.Context, rideID string) ([]*request.Request, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*request.Request, error)
	UpdateStatus(ctx context.Context, id string, status request.Status, ts time.Time) error

	// HasAcceptedRequester reports whether userID holds an ACCEPTED request
	// on the given ride. Used for the rating participation check.
	HasAcceptedRequester(ctx context.Context, rideID, userID string) (bool, error)
}

// RatingRepository persists immutable rating rows, the durable source of
// truth behind the per-user aggregates.
type RatingRepository interface {
	Append(ctx context.Context, rt *rating.Rating) error
	ListForUser(ctx context.Context, ratedID string) ([]*rating.Rating, error)
	// AggregateForUser scans stored rows once; used to backfill a cold
	// aggregate entry.
	AggregateForUser(ctx context.Context, ratedID string) (rating.Aggregate, error)
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// ChildRepository persists child profiles.
type ChildRepository interface {
	Create(ctx context.Context, c *directory.Child) error
	GetByID(ctx context.Context, id string) (*directory.Child, error)
	ListByParent(ctx context.Context, parentID string) ([]*directory.Child, error)
	Delete(ctx context.Context, id, parentID string) error
}

// SchoolRepository persists school directory entries.
type SchoolRepository interface {
	Create(ctx context.Context, s *directory.School) error
	GetByID(ctx context.Context, id string) (*directory.School, error)
	List(ctx context.Context) ([]*directory.School, error)
	Delete(ctx context.Context, id string) error
}

// MessageRepository persists parent-to-parent messages.
type MessageRepository interface {
	Create(ctx context.Context, m *directory.Message) error
	ListForUser(ctx context.Context, userID string) ([]*directory.Message, error)
	MarkRead(ctx context.Context, id, receiverID string) error
}
