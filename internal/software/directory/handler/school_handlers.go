package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"kids-carpool/internal/general/jwt"
	"kids-carpool/internal/ports"
)

// --- Request DTO (HTTP boundary) ---

type createSchoolRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	District string `json:"district"`
}

// ----- Handler: POST /api/schools -----

func (handler *DirectoryHTTPHandler) handleAddSchool(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req createSchoolRequest
	if !handler.decodeStrict(ctx, w, r, &req) {
		return
	}

	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.AddSchool(ctxWithTimeout, claims.Subject, ports.CreateSchoolInput{
		Name:     strings.TrimSpace(req.Name),
		Address:  strings.TrimSpace(req.Address),
		District: strings.TrimSpace(req.District),
	})
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusCreated, res)
}

// ----- Handler: GET /api/schools -----

func (handler *DirectoryHTTPHandler) handleListSchools(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.ListSchools(ctxWithTimeout)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}

// ----- Handler: GET /api/schools/{school_id} -----

func (handler *DirectoryHTTPHandler) handleGetSchool(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	schoolID := strings.TrimSpace(r.PathValue("school_id"))
	if schoolID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "school_id is required", errors.New("missing school_id"))
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.GetSchool(ctxWithTimeout, schoolID)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}

// ----- Handler: DELETE /api/schools/{school_id} -----

func (handler *DirectoryHTTPHandler) handleRemoveSchool(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	schoolID := strings.TrimSpace(r.PathValue("school_id"))
	if schoolID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "school_id is required", errors.New("missing school_id"))
		return
	}

	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := handler.svc.RemoveSchool(ctxWithTimeout, schoolID, claims.Subject); err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusNoContent, nil)
}
