package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"kids-carpool/internal/domain/ride"
)

// ----- Handler: GET /api/rides/{ride_id} -----

func (handler *CatalogHTTPHandler) handleGetRide(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	rideID := strings.TrimSpace(r.PathValue("ride_id"))
	if rideID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "ride_id is required", errors.New("missing ride_id"))
		return
	}
	ctx = handler.logger.WithRideID(ctx, rideID)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.Get(ctxWithTimeout, rideID)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}

// ----- Handler: GET /api/rides -----
//
// Exactly one filter applies, checked in order: driver_id, school_id, status.
// With no filter the ACTIVE listing is returned.
func (handler *CatalogHTTPHandler) handleListRides(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	q := r.URL.Query()

	var (
		rides []*ride.Ride
		err   error
	)
	switch {
	case strings.TrimSpace(q.Get("driver_id")) != "":
		rides, err = handler.svc.ListByOwner(ctxWithTimeout, strings.TrimSpace(q.Get("driver_id")))

	case strings.TrimSpace(q.Get("school_id")) != "":
		rides, err = handler.svc.ListBySchool(ctxWithTimeout, strings.TrimSpace(q.Get("school_id")))

	case strings.TrimSpace(q.Get("status")) != "":
		var status ride.Status
		status, err = ride.ParseStatus(q.Get("status"))
		if err != nil {
			handler.httpError(ctxWithTimeout, w, http.StatusBadRequest, "status must be one of: ACTIVE, COMPLETED, CANCELLED", err)
			return
		}
		rides, err = handler.svc.ListByStatus(ctxWithTimeout, status)

	default:
		rides, err = handler.svc.ListByStatus(ctxWithTimeout, ride.StatusActive)
	}
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	if rides == nil {
		rides = []*ride.Ride{}
	}
	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, rides)
}
