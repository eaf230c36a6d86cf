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

// ----- Handler: PUT /api/ride-requests/{request_id}/status/{status} -----
//
// The driver decides a pending request; the only statuses reachable through
// this endpoint are ACCEPTED and REJECTED. Cancellation has its own route.
func (handler *BookingHTTPHandler) handleDecide(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	requestID := strings.TrimSpace(r.PathValue("request_id"))
	if requestID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "request_id is required", errors.New("missing request_id"))
		return
	}

	status, err := request.ParseStatus(r.PathValue("status"))
	if err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "status must be ACCEPTED or REJECTED", err)
		return
	}

	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var res *request.Request
	switch status {
	case request.StatusAccepted:
		res, err = handler.svc.Accept(ctxWithTimeout, requestID, claims.Subject)
	case request.StatusRejected:
		res, err = handler.svc.Reject(ctxWithTimeout, requestID, claims.Subject)
	default:
		handler.httpError(ctxWithTimeout, w, http.StatusBadRequest, "status must be ACCEPTED or REJECTED", nil)
		return
	}
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}

// ----- Handler: DELETE /api/ride-requests/{request_id}/cancel -----

func (handler *BookingHTTPHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	requestID := strings.TrimSpace(r.PathValue("request_id"))
	if requestID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "request_id is required", errors.New("missing request_id"))
		return
	}

	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.Cancel(ctxWithTimeout, requestID, claims.Subject)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
