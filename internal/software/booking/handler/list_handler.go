package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"kids-carpool/internal/domain/request"
	"kids-carpool/internal/general/jwt"
)

// ----- Handler: GET /api/ride-requests -----
//
// With ?ride_id= the ride owner sees all requests for that ride; without it
// the caller sees their own submitted requests.
func (handler *BookingHTTPHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		reqs []*request.Request
		err  error
	)
	if rideID := strings.TrimSpace(r.URL.Query().Get("ride_id")); rideID != "" {
		ctxWithTimeout = handler.logger.WithRideID(ctxWithTimeout, rideID)
		reqs, err = handler.svc.ListByRide(ctxWithTimeout, rideID, claims.Subject)
	} else {
		reqs, err = handler.svc.ListByRequester(ctxWithTimeout, claims.Subject)
	}
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	if reqs == nil {
		reqs = []*request.Request{}
	}
	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, reqs)
}
