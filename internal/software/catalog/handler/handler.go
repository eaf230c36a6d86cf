package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/user"
	"kids-carpool/internal/general/jwt"
	"kids-carpool/internal/general/logger"
	"kids-carpool/internal/ports"

	"github.com/jackc/pgx/v5/pgconn"
)

// CatalogHTTPHandler adapts HTTP requests to the RideCatalog.
type CatalogHTTPHandler struct {
	svc    ports.RideCatalog
	logger *logger.Logger
	auth   *jwt.Manager
}

// NewCatalogHTTPHandler wires an HTTP handler around the RideCatalog.
func NewCatalogHTTPHandler(svc ports.RideCatalog, logger *logger.Logger, auth *jwt.Manager) *CatalogHTTPHandler {
	return &CatalogHTTPHandler{svc: svc, logger: logger, auth: auth}
}

// RegisterRoutes mounts ride endpoints on the provided mux.
func (handler *CatalogHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	authed := jwt.AuthMiddlewareFunc(handler.auth, user.RoleParent, user.RoleAdmin)

	mux.HandleFunc("POST /api/rides", authed(handler.handleCreateRide))
	mux.HandleFunc("GET /api/rides", authed(handler.handleListRides))
	mux.HandleFunc("GET /api/rides/{ride_id}", authed(handler.handleGetRide))
	mux.HandleFunc("PUT /api/rides/{ride_id}/status/{status}", authed(handler.handleSetStatus))
}

// ----- general helpers -----

func (handler *CatalogHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	// encode to buffer first so we can control status on failure
	var buf []byte
	var err error

	if data != nil {
		buf, err = json.Marshal(data)
		if err != nil {
			handler.logger.Error(ctx, "response_encode_failed", "Failed to encode response", err, nil)
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
			return
		}
	} else {
		buf = []byte("{}")
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

// httpError sends a JSON error response with a message.
func (handler *CatalogHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	action := "request_failed"
	if status >= 500 {
		action = "http_internal_error"
	} else if status == http.StatusBadRequest {
		action = "validation_failed"
	} else if status == http.StatusUnsupportedMediaType {
		action = "unsupported_media_type"
	}
	handler.logger.Error(ctx, action, msg, err, nil)

	type errBody struct {
		Error string `json:"error"`
	}
	handler.jsonResponse(ctx, w, status, errBody{Error: msg})
}

// serviceError maps a service error to an HTTP response.
func (handler *CatalogHTTPHandler) serviceError(ctx context.Context, w http.ResponseWriter, err error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		handler.httpError(ctx, w, http.StatusInternalServerError, "database error", err)
		return
	}
	handler.httpError(ctx, w, errStatus(err), err.Error(), err)
}

// errStatus maps domain error kinds to HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, carpool.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, carpool.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, carpool.ErrInvalidTransition), errors.Is(err, carpool.ErrCapacityExceeded):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *CatalogHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
	reqID := r.Header.Get("X-Request-ID")
	if strings.TrimSpace(reqID) == "" {
		reqID = randID()
	}
	return handler.logger.WithRequestID(ctx, reqID)
}

// randID generates a random 24-char hex string suitable for request IDs.
func randID() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
