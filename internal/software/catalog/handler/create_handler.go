package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"kids-carpool/internal/general/jwt"
	"kids-carpool/internal/ports"
)

// --- Request DTO (HTTP boundary) ---

type createRideRequest struct {
	SchoolID        string `json:"school_id"`
	RideDate        string `json:"ride_date"`
	RideTime        string `json:"ride_time"`
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`
	Notes           string `json:"notes"`
	TotalSeats      int    `json:"total_seats"`
}

// ----- Handler: POST /api/rides -----

func (handler *CatalogHTTPHandler) handleCreateRide(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	defer r.Body.Close()

	// decode strictly
	var req createRideRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			handler.httpError(ctx, w, http.StatusRequestEntityTooLarge, "request body too large", err)
			return
		}
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON: "+err.Error(), err)
		return
	}

	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}

	in := ports.CreateRideInput{
		SchoolID:        strings.TrimSpace(req.SchoolID),
		RideDate:        strings.TrimSpace(req.RideDate),
		RideTime:        strings.TrimSpace(req.RideTime),
		PickupLocation:  strings.TrimSpace(req.PickupLocation),
		DropoffLocation: strings.TrimSpace(req.DropoffLocation),
		Notes:           strings.TrimSpace(req.Notes),
		TotalSeats:      req.TotalSeats,
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// the token subject is the driver; there is no driver_id in the body
	res, err := handler.svc.Create(ctxWithTimeout, claims.Subject, in)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}
	ctxWithTimeout = handler.logger.WithRideID(ctxWithTimeout, res.ID)

	handler.jsonResponse(ctxWithTimeout, w, http.StatusCreated, res)
}
