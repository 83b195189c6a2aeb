// ABOUTME: HTTP JSON API mirroring the original users and performance REST routes.
// ABOUTME: Wires handlers onto a ServeMux and maps domain errors to status codes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/harperreed/scout/internal/analytics"
	"github.com/harperreed/scout/internal/discovery"
	"github.com/harperreed/scout/internal/logger"
	"github.com/harperreed/scout/internal/models"
	"github.com/harperreed/scout/internal/service"
	"github.com/harperreed/scout/internal/storage"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrForbidden  = errors.New("forbidden")
)

// Authorizer decides whether the caller may change data owned by athleteID.
// Returning an error rejects the request with 403.
type Authorizer func(r *http.Request, athleteID uuid.UUID) error

// AllowAll is the default Authorizer.
func AllowAll(*http.Request, uuid.UUID) error { return nil }

// Option configures the Server.
type Option func(*serverOptions)

type serverOptions struct {
	authorize Authorizer
	log       logger.Logger
}

// WithAuthorizer installs an ownership check run before writes to existing data.
func WithAuthorizer(a Authorizer) Option {
	return func(o *serverOptions) {
		if a != nil {
			o.authorize = a
		}
	}
}

// WithLogger sets the logger used for unexpected errors.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// Server wires HTTP routes for the scout API.
type Server struct {
	healthHandler      *HealthHandler
	usersHandler       *UsersHandler
	performanceHandler *PerformanceHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(svc *service.Service, opts ...Option) *Server {
	o := serverOptions{authorize: AllowAll, log: logger.Named("api")}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		usersHandler:       NewUsersHandler(svc, o.authorize, o.log),
		performanceHandler: NewPerformanceHandler(svc, o.authorize, o.log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())

	mux.HandleFunc("POST /api/users/register", MetricsMiddleware(s.usersHandler.HandleRegister, "users_register"))
	mux.HandleFunc("GET /api/users/athletes", MetricsMiddleware(s.usersHandler.HandleListAthletes, "users_athletes"))
	mux.HandleFunc("GET /api/users/{id}", MetricsMiddleware(s.usersHandler.HandleGetUser, "users_get"))
	mux.HandleFunc("PUT /api/users/{id}", MetricsMiddleware(s.usersHandler.HandleUpdateUser, "users_update"))

	mux.HandleFunc("POST /api/performance", MetricsMiddleware(s.performanceHandler.HandleLog, "performance_log"))
	mux.HandleFunc("GET /api/performance/{athleteId}", MetricsMiddleware(s.performanceHandler.HandleHistory, "performance_history"))
	mux.HandleFunc("DELETE /api/performance/records/{id}", MetricsMiddleware(s.performanceHandler.HandleDelete, "performance_delete"))
	mux.HandleFunc("GET /api/performance/{athleteId}/stats", MetricsMiddleware(s.performanceHandler.HandleStats, "performance_stats"))
	mux.HandleFunc("GET /api/performance/{athleteId}/chart", MetricsMiddleware(s.performanceHandler.HandleChart, "performance_chart"))
	mux.HandleFunc("GET /api/performance/{athleteId}/export.csv", MetricsMiddleware(s.performanceHandler.HandleExportCSV, "performance_export"))
}

// Handler returns a ServeMux with every route registered.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	s.Register(ctx, mux)
	return mux
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before touching the response so an encoding failure
// still yields a well-formed 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Named("api").Error("failed to encode response", logger.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "internal_error", Message: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates a service error into a status code and error code.
func writeDomainError(w http.ResponseWriter, log logger.Logger, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", logger.Error(err))
	}
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, discovery.ErrInvalidFilterValue):
		return http.StatusBadRequest, "invalid_filter"
	case errors.Is(err, models.ErrInvalidProfile):
		return http.StatusBadRequest, "invalid_profile"
	case errors.Is(err, models.ErrInvalidRecord):
		return http.StatusBadRequest, "invalid_record"
	case errors.Is(err, storage.ErrNotAthlete):
		return http.StatusBadRequest, "not_athlete"
	case errors.Is(err, storage.ErrAmbiguousPrefix):
		return http.StatusBadRequest, "ambiguous_id"
	case errors.Is(err, storage.ErrDuplicateEmail):
		return http.StatusConflict, "duplicate_email"
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, analytics.ErrEmptySeries):
		return http.StatusNotFound, "empty_series"
	case errors.Is(err, analytics.ErrEmptyExport):
		return http.StatusNotFound, "empty_export"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}
