package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/user"
	"kids-carpool/internal/general/jwt"
	"kids-carpool/internal/general/logger"
	"kids-carpool/internal/ports"

	"github.com/jackc/pgx/v5/pgconn"
)

// DirectoryHTTPHandler adapts HTTP requests to the Directory service.
type DirectoryHTTPHandler struct {
	svc    ports.Directory
	logger *logger.Logger
	auth   *jwt.Manager
}

// NewDirectoryHTTPHandler wires an HTTP handler around the Directory service.
func NewDirectoryHTTPHandler(svc ports.Directory, logger *logger.Logger, auth *jwt.Manager) *DirectoryHTTPHandler {
	return &DirectoryHTTPHandler{svc: svc, logger: logger, auth: auth}
}

// RegisterRoutes mounts auth, profile, school and message endpoints.
func (handler *DirectoryHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	authed := jwt.AuthMiddlewareFunc(handler.auth, user.RoleParent, user.RoleAdmin)
	adminOnly := jwt.AuthMiddlewareFunc(handler.auth, user.RoleAdmin)

	// auth endpoints stay public
	mux.HandleFunc("POST /api/auth/register", handler.handleRegister)
	mux.HandleFunc("POST /api/auth/login", handler.handleLogin)

	mux.HandleFunc("GET /api/users/{user_id}", authed(handler.handleGetUser))

	mux.HandleFunc("POST /api/children", authed(handler.handleAddChild))
	mux.HandleFunc("GET /api/children", authed(handler.handleListChildren))
	mux.HandleFunc("GET /api/children/{child_id}", authed(handler.handleGetChild))
	mux.HandleFunc("DELETE /api/children/{child_id}", authed(handler.handleRemoveChild))

	mux.HandleFunc("POST /api/schools", adminOnly(handler.handleAddSchool))
	mux.HandleFunc("GET /api/schools", authed(handler.handleListSchools))
	mux.HandleFunc("GET /api/schools/{school_id}", authed(handler.handleGetSchool))
	mux.HandleFunc("DELETE /api/schools/{school_id}", adminOnly(handler.handleRemoveSchool))

	mux.HandleFunc("POST /api/messages", authed(handler.handleSendMessage))
	mux.HandleFunc("GET /api/messages", authed(handler.handleListMessages))
	mux.HandleFunc("PUT /api/messages/{message_id}/read", authed(handler.handleMarkRead))

	mux.HandleFunc("GET /health", handler.handleHealth)
}

// ----- Handler: GET /health -----

func (handler *DirectoryHTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)
	handler.jsonResponse(ctx, w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ----- general helpers -----

func (handler *DirectoryHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
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
func (handler *DirectoryHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
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
func (handler *DirectoryHTTPHandler) serviceError(ctx context.Context, w http.ResponseWriter, err error) {
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

// decodeStrict decodes a JSON body with unknown fields rejected.
func (handler *DirectoryHTTPHandler) decodeStrict(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, 256<<10) // 256 KiB
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			handler.httpError(ctx, w, http.StatusRequestEntityTooLarge, "request body too large", err)
			return false
		}
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON: "+err.Error(), err)
		return false
	}
	return true
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *DirectoryHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
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
