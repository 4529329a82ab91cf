package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oscarper3z/MULTI-APIS/internal/repository"
	"github.com/oscarper3z/MULTI-APIS/internal/service/user"
)

// UsersRouter wires the users service HTTP endpoints.
type UsersRouter struct {
	routerCore
	mux         *http.ServeMux
	users       user.Service
	serviceName string
	dbHealth    func(context.Context) error
}

// NewUsersRouter assembles routes with dependencies.
func NewUsersRouter(logger *slog.Logger, usersSvc user.Service, limiter RateLimiter, serviceName string, dbHealth func(context.Context) error) *UsersRouter {
	r := &UsersRouter{
		routerCore:  newRouterCore(logger, limiter, "users_api"),
		mux:         http.NewServeMux(),
		users:       usersSvc,
		serviceName: serviceName,
		dbHealth:    dbHealth,
	}
	r.register()
	return r
}

// ServeHTTP delegates to underlying mux.
func (r *UsersRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close releases background resources.
func (r *UsersRouter) Close() {
	r.close()
}

func (r *UsersRouter) register() {
	r.mux.HandleFunc("/health", r.audit(r.handleHealth))
	r.mux.HandleFunc("/db/health", r.audit(r.handleDBHealth))
	r.mux.HandleFunc("/users", r.audit(r.withRateLimit("/users", rateLimitWrite, rateWindowDefault, r.handleUsers)))
	r.mux.HandleFunc("/users/", r.audit(r.withRateLimit("/users/:id", rateLimitWrite, rateWindowDefault, r.handleUserByID)))
	r.mux.HandleFunc("/metrics", promhttp.Handler().ServeHTTP)
}

func (r *UsersRouter) handleHealth(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": r.serviceName})
}

func (r *UsersRouter) handleDBHealth(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
	defer cancel()
	if err := r.dbHealth(ctx); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (r *UsersRouter) handleUsers(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		users, err := r.users.List(req.Context())
		if err != nil {
			writeFailure(w, http.StatusInternalServerError, "query failed", err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	case http.MethodPost:
		var payload user.CreateInput
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		created, err := r.users.Create(req.Context(), payload)
		if err != nil {
			if errors.Is(err, user.ErrMissingFields) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeFailure(w, http.StatusInternalServerError, "insert failed", err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *UsersRouter) handleUserByID(w http.ResponseWriter, req *http.Request) {
	trimmed := strings.TrimPrefix(req.URL.Path, "/users/")
	if trimmed == "" || strings.Contains(trimmed, "/") {
		r.notFound(w)
		return
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	switch req.Method {
	case http.MethodGet:
		u, err := r.users.Get(req.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			writeFailure(w, http.StatusInternalServerError, "query failed", err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	case http.MethodPut:
		var payload user.UpdateInput
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := r.users.Update(req.Context(), id, payload)
		if err != nil {
			switch {
			case errors.Is(err, user.ErrNothingToUpdate):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, repository.ErrNotFound):
				writeError(w, http.StatusNotFound, "User not found")
			default:
				writeFailure(w, http.StatusInternalServerError, "update failed", err)
			}
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		deleted, err := r.users.Delete(req.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			writeFailure(w, http.StatusInternalServerError, "delete failed", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "User deleted", "user": deleted})
	default:
		r.methodNotAllowed(w)
	}
}
