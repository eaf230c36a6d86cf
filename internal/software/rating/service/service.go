package service

import (
	"sync"

	"kids-carpool/internal/domain/rating"
	"kids-carpool/internal/general/logger"
	"kids-carpool/internal/ports"
)

// ratingService appends rating rows and maintains incrementally updated
// per-user (sum, count) aggregates. The stored rows are the source of truth;
// an aggregate entry is backfilled from them once, on first touch, and from
// then on updated in O(1) per new rating.
type ratingService struct {
	logger      *logger.Logger
	uow         ports.UnitOfWork
	ratingRepo  ports.RatingRepository
	requestRepo ports.RideRequestRepository
	rideRepo    ports.RideRepository
	userRepo    ports.UserRepository
	pub         ports.EventPublisher

	mu   sync.Mutex
	aggs map[string]*aggEntry
}

// aggEntry is one user's cached aggregate. Its mutex serializes all rating
// writes and aggregate reads for that user, so concurrent ratings of the
// same user never lose updates while different users proceed in parallel.
type aggEntry struct {
	mu     sync.Mutex
	loaded bool
	agg    rating.Aggregate
}

// NewRatingService creates a new rating aggregator with the provided dependencies.
func NewRatingService(
	logger *logger.Logger,
	uow ports.UnitOfWork,
	ratingRepo ports.RatingRepository,
	requestRepo ports.RideRequestRepository,
	rideRepo ports.RideRepository,
	userRepo ports.UserRepository,
	pub ports.EventPublisher,
) ports.RatingAggregator {
	return &ratingService{
		logger:      logger,
		uow:         uow,
		ratingRepo:  ratingRepo,
		requestRepo: requestRepo,
		rideRepo:    rideRepo,
		userRepo:    userRepo,
		pub:         pub,
		aggs:        make(map[string]*aggEntry),
	}
}

// entryFor returns the aggregate entry for userID, creating it on first use.
func (service *ratingService) entryFor(userID string) *aggEntry {
	service.mu.Lock()
	defer service.mu.Unlock()

	entry, ok := service.aggs[userID]
	if !ok {
		entry = &aggEntry{}
		service.aggs[userID] = entry
	}
	return entry
}
