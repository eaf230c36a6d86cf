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

type createChildRequest struct {
	Name                  string `json:"name"`
	Age                   int    `json:"age"`
	Grade                 string `json:"grade"`
	SchoolID              string `json:"school_id"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
	MedicalInfo           string `json:"medical_info"`
	SpecialNeeds          string `json:"special_needs"`
}

// ----- Handler: POST /api/children -----

func (handler *DirectoryHTTPHandler) handleAddChild(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req createChildRequest
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

	res, err := handler.svc.AddChild(ctxWithTimeout, claims.Subject, ports.CreateChildInput{
		Name:                  strings.TrimSpace(req.Name),
		Age:                   req.Age,
		Grade:                 strings.TrimSpace(req.Grade),
		SchoolID:              strings.TrimSpace(req.SchoolID),
		EmergencyContactName:  strings.TrimSpace(req.EmergencyContactName),
		EmergencyContactPhone: strings.TrimSpace(req.EmergencyContactPhone),
		MedicalInfo:           strings.TrimSpace(req.MedicalInfo),
		SpecialNeeds:          strings.TrimSpace(req.SpecialNeeds),
	})
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusCreated, res)
}

// ----- Handler: GET /api/children -----

func (handler *DirectoryHTTPHandler) handleListChildren(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.ListChildren(ctxWithTimeout, claims.Subject)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}

// ----- Handler: GET /api/children/{child_id} -----

func (handler *DirectoryHTTPHandler) handleGetChild(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	childID := strings.TrimSpace(r.PathValue("child_id"))
	if childID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "child_id is required", errors.New("missing child_id"))
		return
	}

	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.GetChild(ctxWithTimeout, childID, claims.Subject)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}

// ----- Handler: DELETE /api/children/{child_id} -----

func (handler *DirectoryHTTPHandler) handleRemoveChild(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	childID := strings.TrimSpace(r.PathValue("child_id"))
	if childID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "child_id is required", errors.New("missing child_id"))
		return
	}

	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := handler.svc.RemoveChild(ctxWithTimeout, childID, claims.Subject); err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusNoContent, nil)
}
