package service

import (
	"context"
	"fmt"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/rating"
	"kids-carpool/internal/ports"
)

// AverageFor returns the user's current reputation. A user nobody has rated
// yet reads as average 0 with count 0. The first call for a user backfills
// the aggregate from stored rows; later calls answer from memory.
func (service *ratingService) AverageFor(ctx context.Context, userID string) (ports.UserReputation, error) {
	entry := service.entryFor(userID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !entry.loaded {
		var agg rating.Aggregate
		err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
			exists, err := service.userRepo.Exists(txCtx, userID)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("%w: user %s", carpool.ErrNotFound, userID)
			}

			agg, err = service.ratingRepo.AggregateForUser(txCtx, userID)
			return err
		})
		if err != nil {
			return ports.UserReputation{}, err
		}
		entry.agg = agg
		entry.loaded = true
	}

	return ports.UserReputation{
		UserID:  userID,
		Average: entry.agg.Average(),
		Count:   entry.agg.Count,
	}, nil
}

// RatingsFor lists the individual ratings a user has received, newest first.
func (service *ratingService) RatingsFor(ctx context.Context, userID string) ([]*rating.Rating, error) {
	var out []*rating.Rating
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		out, err = service.ratingRepo.ListForUser(txCtx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
