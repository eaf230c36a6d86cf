package service

import (
	"context"
	"errors"

	"kids-carpool/internal/domain/ride"
	"kids-carpool/internal/general/cache"
	"kids-carpool/internal/general/metrics"
)

// Get loads a single ride by id.
func (service *catalogService) Get(ctx context.Context, rideID string) (*ride.Ride, error) {
	var r *ride.Ride
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		r, err = service.rideRepo.GetByID(txCtx, rideID)
		return err
	})
	return r, err
}

// ListByOwner returns all rides published by driverID, newest first.
func (service *catalogService) ListByOwner(ctx context.Context, driverID string) ([]*ride.Ride, error) {
	return service.cachedList(ctx, cacheKeyDriver(driverID), func(txCtx context.Context) ([]*ride.Ride, error) {
		return service.rideRepo.ListByDriver(txCtx, driverID)
	})
}

// ListBySchool returns all rides bound to a school, newest first.
func (service *catalogService) ListBySchool(ctx context.Context, schoolID string) ([]*ride.Ride, error) {
	return service.cachedList(ctx, cacheKeySchool(schoolID), func(txCtx context.Context) ([]*ride.Ride, error) {
		return service.rideRepo.ListBySchool(txCtx, schoolID)
	})
}

// ListByStatus returns all rides in the given status, newest first.
func (service *catalogService) ListByStatus(ctx context.Context, status ride.Status) ([]*ride.Ride, error) {
	if !status.Valid() {
		return nil, ride.ErrInvalidStatus
	}
	return service.cachedList(ctx, cacheKeyStatus(status), func(txCtx context.Context) ([]*ride.Ride, error) {
		return service.rideRepo.ListByStatus(txCtx, status)
	})
}

// cachedList is the shared read-through path for listing endpoints. A cache
// hit skips the database entirely; misses refill the entry.
func (service *catalogService) cachedList(ctx context.Context, key string, load func(context.Context) ([]*ride.Ride, error)) ([]*ride.Ride, error) {
	var rides []*ride.Ride
	if err := service.cache.Get(ctx, key, &rides); err == nil {
		metrics.ListingCacheTotal.WithLabelValues("hit").Inc()
		return rides, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		service.logger.Error(ctx, "listing_cache_get_failed", "Ride listing cache lookup failed", err, map[string]any{"key": key})
	}
	metrics.ListingCacheTotal.WithLabelValues("miss").Inc()

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		rides, err = load(txCtx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := service.cache.Set(ctx, key, rides); err != nil {
		service.logger.Error(ctx, "listing_cache_set_failed", "Ride listing cache store failed", err, map[string]any{"key": key})
	}
	return rides, nil
}
