package service

import (
	"context"

	"kids-carpool/internal/general/cache"
	"kids-carpool/internal/general/logger"
	"kids-carpool/internal/ports"
)

// listingCache is the slice of cache.Cache the catalog consumes.
type listingCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, keys ...string)
}

// catalogService owns ride records and is the single write path for seat
// counts and ride status.
type catalogService struct {
	logger     *logger.Logger
	uow        ports.UnitOfWork
	rideRepo   ports.RideRepository
	schoolRepo ports.SchoolRepository
	cache      listingCache
	pub        ports.EventPublisher
}

// NewCatalogService creates a new ride catalog with the provided dependencies.
func NewCatalogService(
	logger *logger.Logger,
	uow ports.UnitOfWork,
	rideRepo ports.RideRepository,
	schoolRepo ports.SchoolRepository,
	cache *cache.Cache,
	pub ports.EventPublisher,
) ports.RideCatalog {
	return &catalogService{
		logger:     logger,
		uow:        uow,
		rideRepo:   rideRepo,
		schoolRepo: schoolRepo,
		cache:      cache,
		pub:        pub,
	}
}
