package ports

import (
	"context"

	"kids-carpool/internal/domain/directory"
	"kids-carpool/internal/domain/rating"
	"kids-carpool/internal/domain/request"
	"kids-carpool/internal/domain/ride"
	"kids-carpool/internal/domain/user"
)

// ----- Ride catalog -----

// CreateRideInput is the validated input required to publish a ride.
type CreateRideInput struct {
	SchoolID        string
	RideDate        string
	RideTime        string
	PickupLocation  string
	DropoffLocation string
	Notes           string
	TotalSeats      int
}

// RideCatalog owns ride records and is the single authority for seat counts.
// Every operation takes the acting user id explicitly; there is no implicit
// request-scoped principal.
type RideCatalog interface {
	Create(ctx context.Context, driverID string, in CreateRideInput) (*ride.Ride, error)
	Get(ctx context.Context, rideID string) (*ride.Ride, error)
	ListByOwner(ctx context.Context, driverID string) ([]*ride.Ride, error)
	ListBySchool(ctx context.Context, schoolID string) ([]*ride.Ride, error)
	ListByStatus(ctx context.Context, status ride.Status) ([]*ride.Ride, error)
	SetStatus(ctx context.Context, rideID string, next ride.Status, actorID string) (*ride.Ride, error)

	// TryReserveSeat and ReleaseSeat are invoked by the booking processor
	// inside its own transaction scope.
	TryReserveSeat(ctx context.Context, rideID string) (bool, error)
	ReleaseSeat(ctx context.Context, rideID string) error
}

// ----- Booking request processor -----

// SubmitRequestInput is the validated input to ask for a seat.
type SubmitRequestInput struct {
	RideID        string
	ChildID       string
	PickupAddress string
}

// BookingProcessor owns the request lifecycle state machine and, through the
// catalog, the seat count changes its transitions imply.
type BookingProcessor interface {
	Submit(ctx context.Context, requesterID string, in SubmitRequestInput) (*request.Request, error)
	Accept(ctx context.Context, requestID, actorID string) (*request.Request, error)
	Reject(ctx context.Context, requestID, actorID string) (*request.Request, error)
	Cancel(ctx context.Context, requestID, actorID string) (*request.Request, error)
	ListByRide(ctx context.Context, rideID, actorID string) ([]*request.Request, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*request.Request, error)
}

// ----- Rating aggregator -----

// RecordRatingInput is the validated input for one new rating.
type RecordRatingInput struct {
	RatedID string
	RideID  string
	Score   int
	Comment string
}

// UserReputation pairs the O(1) aggregate with its owner for read APIs.
type UserReputation struct {
	UserID  string  `json:"user_id"`
	Average float64 `json:"average_rating"`
	Count   int64   `json:"total_ratings"`
}

// RatingAggregator appends ratings and maintains per-user reputation
// aggregates that always equal the mean over stored rows.
type RatingAggregator interface {
	Record(ctx context.Context, raterID string, in RecordRatingInput) (*rating.Rating, error)
	AverageFor(ctx context.Context, userID string) (UserReputation, error)
	RatingsFor(ctx context.Context, userID string) ([]*rating.Rating, error)
}

// ----- Directory (users, children, schools, messages) -----

// RegisterInput is the validated input for account creation.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// CreateChildInput is the validated input for a child profile.
type CreateChildInput struct {
	Name                  string
	Age                   int
	Grade                 string
	SchoolID              string
	EmergencyContactName  string
	EmergencyContactPhone string
	MedicalInfo           string
	SpecialNeeds          string
}

// CreateSchoolInput is the validated input for a school entry.
type CreateSchoolInput struct {
	Name     string
	Address  string
	District string
}

// Directory covers the plain record storage around the booking core:
// accounts, children, schools and messages.
type Directory interface {
	Register(ctx context.Context, in RegisterInput) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	GetUser(ctx context.Context, userID string) (*user.User, error)

	AddChild(ctx context.Context, parentID string, in CreateChildInput) (*directory.Child, error)
	GetChild(ctx context.Context, childID, parentID string) (*directory.Child, error)
	ListChildren(ctx context.Context, parentID string) ([]*directory.Child, error)
	RemoveChild(ctx context.Context, childID, parentID string) error

	AddSchool(ctx context.Context, actorID string, in CreateSchoolInput) (*directory.School, error)
	GetSchool(ctx context.Context, schoolID string) (*directory.School, error)
	ListSchools(ctx context.Context) ([]*directory.School, error)
	RemoveSchool(ctx context.Context, schoolID, actorID string) error

	SendMessage(ctx context.Context, senderID, receiverID, content string) (*directory.Message, error)
	ListMessages(ctx context.Context, userID string) ([]*directory.Message, error)
	MarkMessageRead(ctx context.Context, messageID, readerID string) error
}
