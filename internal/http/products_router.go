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
	"github.com/oscarper3z/MULTI-APIS/internal/service/product"
)

// ProductsRouter wires the products service HTTP endpoints, including the
// composed /products/with-users read.
type ProductsRouter struct {
	routerCore
	mux         *http.ServeMux
	products    product.Service
	serviceName string
	dbHealth    func(context.Context) error
}

// NewProductsRouter assembles routes with dependencies.
func NewProductsRouter(logger *slog.Logger, productsSvc product.Service, limiter RateLimiter, serviceName string, dbHealth func(context.Context) error) *ProductsRouter {
	r := &ProductsRouter{
		routerCore:  newRouterCore(logger, limiter, "products_api"),
		mux:         http.NewServeMux(),
		products:    productsSvc,
		serviceName: serviceName,
		dbHealth:    dbHealth,
	}
	r.register()
	return r
}

// ServeHTTP delegates to underlying mux.
func (r *ProductsRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close releases background resources.
func (r *ProductsRouter) Close() {
	r.close()
}

func (r *ProductsRouter) register() {
	r.mux.HandleFunc("/health", r.audit(r.handleHealth))
	r.mux.HandleFunc("/db/health", r.audit(r.handleDBHealth))
	r.mux.HandleFunc("/products", r.audit(r.withRateLimit("/products", rateLimitWrite, rateWindowDefault, r.handleProducts)))
	r.mux.HandleFunc("/products/", r.audit(r.withRateLimit("/products/:id", rateLimitWrite, rateWindowDefault, r.handleProductSubroutes)))
	r.mux.HandleFunc("/metrics", promhttp.Handler().ServeHTTP)
}

func (r *ProductsRouter) handleHealth(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": r.serviceName})
}

func (r *ProductsRouter) handleDBHealth(w http.ResponseWriter, req *http.Request) {
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

func (r *ProductsRouter) handleProducts(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		products, err := r.products.List(req.Context())
		if err != nil {
			writeFailure(w, http.StatusInternalServerError, "query failed", err)
			return
		}
		writeJSON(w, http.StatusOK, products)
	case http.MethodPost:
		var payload product.CreateInput
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		created, err := r.products.Create(req.Context(), payload)
		if err != nil {
			if errors.Is(err, product.ErrMissingFields) {
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

func (r *ProductsRouter) handleProductSubroutes(w http.ResponseWriter, req *http.Request) {
	trimmed := strings.TrimPrefix(req.URL.Path, "/products/")
	if trimmed == "" || strings.Contains(trimmed, "/") {
		r.notFound(w)
		return
	}
	if trimmed == "with-users" {
		r.handleProductsWithUsers(w, req)
		return
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	r.handleProductByID(w, req, id)
}

func (r *ProductsRouter) handleProductByID(w http.ResponseWriter, req *http.Request, id int64) {
	switch req.Method {
	case http.MethodGet:
		p, err := r.products.Get(req.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Product not found")
				return
			}
			writeFailure(w, http.StatusInternalServerError, "query failed", err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodPut:
		var payload product.UpdateInput
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := r.products.Update(req.Context(), id, payload)
		if err != nil {
			switch {
			case errors.Is(err, product.ErrNothingToUpdate):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, repository.ErrNotFound):
				writeError(w, http.StatusNotFound, "Product not found")
			default:
				writeFailure(w, http.StatusInternalServerError, "update failed", err)
			}
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		deleted, err := r.products.Delete(req.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Product not found")
				return
			}
			writeFailure(w, http.StatusInternalServerError, "delete failed", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Product deleted", "product": deleted})
	default:
		r.methodNotAllowed(w)
	}
}

func (r *ProductsRouter) handleProductsWithUsers(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	products, usersCount, err := r.products.ListWithUsers(req.Context())
	if err != nil {
		var unavailable *product.UsersUnavailableError
		if errors.As(err, &unavailable) {
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"error":  "could not reach users service",
				"detail": unavailable.Err.Error(),
			})
			return
		}
		writeFailure(w, http.StatusInternalServerError, "query failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"products":   products,
		"usersCount": usersCount,
	})
}
