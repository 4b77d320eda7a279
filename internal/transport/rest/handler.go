// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	apperrors "github.com/mretail/products-api/internal/errors"
	"github.com/mretail/products-api/internal/platform/web"
	"github.com/mretail/products-api/internal/service"
)

type Handler struct {
	service  service.ProductService
	auth     Authorizer
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new product API handler with the provided service
// and authorizer.
func NewHandler(productService service.ProductService, auth Authorizer, logger *slog.Logger) *Handler {
	return &Handler{
		service:  productService,
		auth:     auth,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the products API. Only the
// mutating route sits behind the basic-auth gate.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetProduct)
			r.With(BasicAuth(h.auth)).Put("/", h.UpdateProduct)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// GetProduct retrieves a product by its ID, name included.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to get product", "ID", id)
	found, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err)
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// UpdateProduct replaces the price of a product. The body must carry a
// price and an ID equal to the path ID; both checks fail the request
// before any collaborator is invoked.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to update product", "ID", id)
	var productDto service.ProductDto
	if err := json.NewDecoder(r.Body).Decode(&productDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		h.respondServiceError(w, r, mLogger, apperrors.InvalidRequest("Invalid request body"))
		return
	}

	if productDto.Price == nil {
		h.respondServiceError(w, r, mLogger, apperrors.InvalidRequest("Product price cannot be null"))
		return
	}
	if productDto.ID != id {
		h.respondServiceError(w, r, mLogger, apperrors.InvalidRequest("ProductId does not match the product"))
		return
	}
	if err := h.validate.Struct(productDto); err != nil {
		mLogger.WarnContext(r.Context(), "Validation failed", "error", err)
		h.respondServiceError(w, r, mLogger, apperrors.InvalidRequest("Product price is invalid"))
		return
	}

	updated, err := h.service.UpdateProduct(r.Context(), id, *productDto.Price)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "price", updated.Price.Value)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// HealthCheck responds with a simple status for liveness probes.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// respondServiceError translates an application error kind into an HTTP
// status. The response body is the error message text.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		mLogger.WarnContext(r.Context(), "Product not found", "error", err)
		web.RespondError(w, mLogger, http.StatusNotFound, err.Error())
	case apperrors.KindInvalidRequest:
		mLogger.WarnContext(r.Context(), "Invalid request", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
	default:
		mLogger.ErrorContext(r.Context(), "Internal failure", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, err.Error())
	}
}

// loggerWithReqID returns the handler logger enriched with the request ID.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	if reqID, ok := web.GetRequestID(r.Context()); ok {
		return h.logger.With("request_id", reqID)
	}
	return h.logger
}
