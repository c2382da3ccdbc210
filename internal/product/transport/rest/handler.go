// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/productstore/internal/product/errors"
	"github.com/abgdnv/productstore/internal/product/model"
	"github.com/abgdnv/productstore/internal/product/service"
	"github.com/abgdnv/productstore/internal/product/static"
	"github.com/abgdnv/productstore/pkg/web"
	"github.com/go-chi/chi/v5"
)

// Handler serves the product HTTP API.
type Handler struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewHandler creates a new Handler backed by the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "api"),
	}
}

// RegisterRoutes mounts every product endpoint on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Get("/", h.Index)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
		})
	})
}

// HealthCheck is a simple liveness endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]any{"status": http.StatusOK, "message": "OK"})
}

// Index serves the embedded landing page.
func (h *Handler) Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(static.Index)
}

// List returns all products or the ones matching the highest-precedence query filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := service.ListFilter{
		Name:      query.Get("name"),
		Category:  query.Get("category"),
		Available: query.Get("available"),
		Price:     query.Get("price"),
	}
	h.logger.DebugContext(r.Context(), "Received request to list products", "filter", filter.Kind().String())

	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, err, 0, "Failed to fetch products")
		return
	}
	result := make([]map[string]any, 0, len(products))
	for i := range products {
		result = append(result, products[i].Serialize())
	}
	h.logger.DebugContext(r.Context(), "Returning products", "count", len(result))
	web.RespondJSON(w, h.logger, http.StatusOK, result)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, id, fmt.Sprintf("Failed to retrieve product with id '%d'", id))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found.Serialize())
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !web.RequireContentType(w, r, h.logger, web.MediaTypeJSON) {
		return
	}
	payload, ok := decodeBody(w, r, h.logger)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), payload)
	if err != nil {
		h.respondServiceError(w, r, err, 0, "Failed to create product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	w.Header().Set("Location", web.AbsoluteURL(r, fmt.Sprintf("/products/%d", created.ID)))
	web.RespondJSON(w, h.logger, http.StatusCreated, created.Serialize())
}

// Update replaces a product from the request body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	if !web.RequireContentType(w, r, h.logger, web.MediaTypeJSON) {
		return
	}
	payload, ok := decodeBody(w, r, h.logger)
	if !ok {
		return
	}

	updated, err := h.service.Update(r.Context(), id, payload)
	if err != nil {
		h.respondServiceError(w, r, err, id, fmt.Sprintf("Failed to update product with id '%d'", id))
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updated.Serialize())
}

// DeleteByID deletes a product by its ID. Deleting a missing product succeeds.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, id, fmt.Sprintf("Failed to delete product with id '%d'", id))
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// respondServiceError maps a service error to a status code. Unclassified errors are logged and
// reported with fallback, never with their detail.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, id int64, fallback string) {
	var validationErr *model.DataValidationError
	switch {
	case errors.As(err, &validationErr):
		h.logger.WarnContext(r.Context(), "Validation error", "field", validationErr.Field, "reason", validationErr.Reason)
		web.RespondJSON(w, h.logger, http.StatusBadRequest, map[string]string{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
	case errors.Is(err, perrors.ErrProductNotFound):
		h.logger.WarnContext(r.Context(), "Product not found", "ID", id)
		web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Product with id '%d' was not found.", id))
	default:
		h.logger.ErrorContext(r.Context(), fallback, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, fallback)
	}
}

// decodeBody reads the request body as a JSON object. Numbers are kept as json.Number
// so prices are not rounded through float64.
func decodeBody(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (map[string]any, bool) {
	var payload map[string]any
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			web.RespondError(w, logger, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit))
			return nil, false
		}
		web.RespondError(w, logger, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if payload == nil {
		web.RespondError(w, logger, http.StatusBadRequest, "Request body must be a JSON object")
		return nil, false
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		logger.WarnContext(r.Context(), "Unexpected data after request body")
		web.RespondError(w, logger, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return payload, true
}
