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

type submitRequestRequest struct {
	RideID        string `json:"ride_id"`
	ChildID       string `json:"child_id"`
	PickupAddress string `json:"pickup_address"`
}

// ----- Handler: POST /api/ride-requests -----

func (handler *BookingHTTPHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 256<<10) // 256 KiB
	defer r.Body.Close()

	// decode strictly
	var req submitRequestRequest
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
	ctx = handler.logger.WithRideID(ctx, req.RideID)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// the token subject is the requester; there is no requester_id in the body
	res, err := handler.svc.Submit(ctxWithTimeout, claims.Subject, ports.SubmitRequestInput{
		RideID:        strings.TrimSpace(req.RideID),
		ChildID:       strings.TrimSpace(req.ChildID),
		PickupAddress: strings.TrimSpace(req.PickupAddress),
	})
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusCreated, res)
}
