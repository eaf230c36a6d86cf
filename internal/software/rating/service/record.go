package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/rating"
	"kids-carpool/internal/domain/ride"
	"kids-carpool/internal/general/contracts"
	"kids-carpool/internal/general/metrics"
	"kids-carpool/internal/ports"
)

// Record validates, authorizes and appends one rating, then folds its score
// into the rated user's aggregate. Both rater and rated must have taken part
// in the ride (its driver or an accepted requester), and the ride must be
// COMPLETED. The rated user's entry lock makes append-plus-fold atomic with
// respect to other ratings of the same user.
func (service *ratingService) Record(ctx context.Context, raterID string, in ports.RecordRatingInput) (*rating.Rating, error) {
	rt, err := rating.NewRating(raterID, in.RatedID, in.RideID, in.Score, in.Comment)
	if err != nil {
		return nil, err
	}

	entry := service.entryFor(rt.RatedID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	var backfill rating.Aggregate
	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		r, err := service.rideRepo.GetByID(txCtx, rt.RideID)
		if err != nil {
			return err
		}
		if r.Status != ride.StatusCompleted {
			return fmt.Errorf("%w: ride %s has not completed", carpool.ErrValidation, r.ID)
		}

		for _, userID := range []string{rt.RaterID, rt.RatedID} {
			ok, err := service.participated(txCtx, r.ID, r.DriverID, userID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: user %s did not take part in ride %s", carpool.ErrUnauthorized, userID, r.ID)
			}
		}

		if !entry.loaded {
			// first rating for this user since startup: snapshot the stored
			// rows inside the same tx that appends the new one
			backfill, err = service.ratingRepo.AggregateForUser(txCtx, rt.RatedID)
			if err != nil {
				return err
			}
		}

		return service.ratingRepo.Append(txCtx, rt)
	})
	if err != nil {
		service.logger.Error(ctx, "rating_record_failed", "Failed to record rating", err, map[string]any{
			"rater_id": raterID,
			"rated_id": in.RatedID,
			"ride_id":  in.RideID,
		})
		return nil, err
	}

	if !entry.loaded {
		entry.agg = backfill
		entry.loaded = true
	}
	entry.agg.Add(rt.Score)
	metrics.RatingsRecordedTotal.Inc()

	service.publishRecorded(ctx, rt)

	service.logger.Info(ctx, "rating_recorded",
		fmt.Sprintf("User %s rated %d by %s", rt.RatedID, rt.Score, rt.RaterID),
		map[string]any{
			"rating_id": rt.ID,
			"rated_id":  rt.RatedID,
			"ride_id":   rt.RideID,
			"score":     rt.Score,
		},
	)

	return rt, nil
}

// participated reports whether userID took part in the ride, either as its
// driver or through an accepted request.
func (service *ratingService) participated(ctx context.Context, rideID, driverID, userID string) (bool, error) {
	if userID == driverID {
		return true, nil
	}
	return service.requestRepo.HasAcceptedRequester(ctx, rideID, userID)
}

// publishRecorded emits a rating.recorded event, best-effort.
func (service *ratingService) publishRecorded(ctx context.Context, rt *rating.Rating) {
	body, err := json.Marshal(contracts.RatingRecordedMessage{
		RatingID:  rt.ID,
		RatedID:   rt.RatedID,
		RideID:    rt.RideID,
		Score:     rt.Score,
		Timestamp: time.Now().UTC(),
		Envelope: contracts.Envelope{
			Producer: "carpool-service",
			SentAt:   time.Now().UTC(),
		},
	})
	if err == nil {
		err = service.pub.Publish(contracts.ExchangeCarpoolTopic, contracts.RouteRatingRecorded, body)
	}
	if err != nil {
		service.logger.Error(ctx, "rating_event_publish_failed", "Failed to publish rating event to RabbitMQ", err, map[string]any{
			"rating_id": rt.ID,
		})
	}
}
