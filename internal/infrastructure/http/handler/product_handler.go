package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrops-br/financial-products/internal/app/dto"
	"github.com/mrops-br/financial-products/internal/app/service"
	"github.com/mrops-br/financial-products/internal/domain"
	"github.com/mrops-br/financial-products/internal/infrastructure/http/response"
)

const msgNotFound = "Not product found with that identifier"

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// Routes mounts the product endpoints on r
func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/", h.ListProducts)
	r.Post("/", h.CreateProduct)
	r.Get("/verification/{id}", h.VerifyProduct)
	r.Get("/{id}", h.GetProduct)
	r.Put("/{id}", h.UpdateProduct)
	r.Delete("/{id}", h.DeleteProduct)
}

// writeError maps service errors to HTTP statuses
func (h *ProductHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Invalid(w, verr.Violations)
	case errors.Is(err, domain.ErrProductNotFound):
		response.Error(w, http.StatusNotFound, msgNotFound)
	default:
		h.logger.ErrorContext(r.Context(), "Unhandled product error",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *ProductHandler) decode(w http.ResponseWriter, r *http.Request) (*dto.ProductRequest, bool) {
	var req dto.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return nil, false
	}
	return &req, true
}

// CreateProduct handles POST {base}
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.MutationResponse{
		Message: "Product added successfully",
		Data:    product,
	})
}

// UpdateProduct handles PUT {base}/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.MutationResponse{
		Message: "Product updated successfully",
		Data:    product,
	})
}

// DeleteProduct handles DELETE {base}/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.MessageResponse{Message: "Product removed successfully"})
}

// GetProduct handles GET {base}/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// VerifyProduct handles GET {base}/verification/{id}
func (h *ProductHandler) VerifyProduct(w http.ResponseWriter, r *http.Request) {
	exists, err := h.service.VerifyID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, exists)
}

// ListProducts handles GET {base}
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ListResponse{Data: products})
}
