package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"kids-carpool/internal/domain/ride"
	"kids-carpool/internal/general/jwt"
)

// ----- Handler: PUT /api/rides/{ride_id}/status/{status} -----

func (handler *CatalogHTTPHandler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	rideID := strings.TrimSpace(r.PathValue("ride_id"))
	if rideID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "ride_id is required", errors.New("missing ride_id"))
		return
	}
	ctx = handler.logger.WithRideID(ctx, rideID)

	// parse the target status totally; garbage becomes a 400, never a panic
	status, err := ride.ParseStatus(r.PathValue("status"))
	if err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "status must be one of: ACTIVE, COMPLETED, CANCELLED", err)
		return
	}

	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.SetStatus(ctxWithTimeout, rideID, status, claims.Subject)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
