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

// RatingHTTPHandler adapts HTTP requests to the RatingAggregator.
type RatingHTTPHandler struct {
	svc    ports.RatingAggregator
	logger *logger.Logger
	auth   *jwt.Manager
}

// NewRatingHTTPHandler wires an HTTP handler around the RatingAggregator.
func NewRatingHTTPHandler(svc ports.RatingAggregator, logger *logger.Logger, auth *jwt.Manager) *RatingHTTPHandler {
	return &RatingHTTPHandler{svc: svc, logger: logger, auth: auth}
}

// RegisterRoutes mounts rating endpoints on the provided mux.
func (handler *RatingHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	authed := jwt.AuthMiddlewareFunc(handler.auth, user.RoleParent, user.RoleAdmin)

	mux.HandleFunc("POST /api/ratings", authed(handler.handleRecord))
	mux.HandleFunc("GET /api/users/{user_id}/rating", authed(handler.handleAverage))
	mux.HandleFunc("GET /api/users/{user_id}/ratings", authed(handler.handleListRatings))
}

// ----- general helpers -----

func (handler *RatingHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
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
func (handler *RatingHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	action := "request_failed"
	if status >= 500 {
		action = "http_internal_error"
	} else if status == http.StatusBadRequest {
		action = "validation_failed"
	}
	handler.logger.Error(ctx, action, msg, err, nil)

	type errBody struct {
		Error string `json:"error"`
	}
	handler.jsonResponse(ctx, w, status, errBody{Error: msg})
}

// serviceError maps a service error to an HTTP response.
func (handler *RatingHTTPHandler) serviceError(ctx context.Context, w http.ResponseWriter, err error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		handler.httpError(ctx, w, http.StatusInternalServerError, "database error", err)
		return
	}

	status := http.StatusBadRequest
	switch {
	case errors.Is(err, carpool.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, carpool.ErrUnauthorized):
		status = http.StatusForbidden
	}
	handler.httpError(ctx, w, status, err.Error(), err)
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *RatingHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
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
