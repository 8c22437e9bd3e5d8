package transport

import (
	"net/http"

	"purefood/internal/domain"
	"purefood/internal/middleware"
	"purefood/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductHandler handles catalog requests
type ProductHandler struct {
	backend service.Backend
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(backend service.Backend, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		backend: backend,
		logger:  logger,
	}
}

// RegisterRoutes registers the catalog routes. Writes require an admin token.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/categories", h.Categories)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, middleware.RequireAdmin(h.logger))
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List returns the catalog, optionally narrowed by ?q= and ?category=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.backend.ListProducts(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "list products")
		return
	}

	query := r.URL.Query()
	products = service.FilterProducts(products, query.Get("q"), query.Get("category"))

	response := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		response = append(response, NewProductResponse(p))
	}
	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// Categories returns the distinct catalog categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	products, err := h.backend.ListProducts(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "list categories")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, service.Categories(products))
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.backend.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "get product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, NewProductResponse(product))
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.ProductInput
	if err := middleware.DecodeAndValidate(r, &input); err != nil {
		respondWithDecodeError(w, h.logger, err)
		return
	}

	product, err := h.backend.CreateProduct(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID), zap.String("name", product.Name))
	middleware.RespondWithJSON(w, http.StatusCreated, NewProductResponse(product))
}

// Update applies a partial update; omitted fields keep their values
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProductPatch
	if err := middleware.DecodeAndValidate(r, &patch); err != nil {
		respondWithDecodeError(w, h.logger, err)
		return
	}
	if patch.IsEmpty() {
		middleware.RespondWithError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	id := chi.URLParam(r, "id")
	product, err := h.backend.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "update product")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, NewProductResponse(product))
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deleted, err := h.backend.DeleteProduct(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "delete product")
		return
	}
	if !deleted {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted"})
}
