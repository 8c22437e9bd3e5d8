package transport

import (
	"net/http"
	"strings"

	"purefood/internal/domain"
	"purefood/internal/middleware"
	"purefood/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderHandler handles order placement, tracking and administration
type OrderHandler struct {
	backend service.Backend
	logger  *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(backend service.Backend, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		backend: backend,
		logger:  logger,
	}
}

// RegisterRoutes registers the order routes. Placing, tracking and
// reading a single order are public.
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/track", h.Track)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, middleware.RequireAdmin(h.logger))
			r.Get("/", h.List)
			r.Get("/stats", h.Stats)
			r.Put("/{id}", h.UpdateStatus)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// Create places a cash-on-delivery order
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondWithDecodeError(w, h.logger, err)
		return
	}

	order, err := h.backend.CreateOrder(r.Context(), req.NewOrder())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "create order")
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("total", order.TotalAmount.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, NewOrderResponse(order))
}

// Track lists a customer's orders by phone, newest first
func (h *OrderHandler) Track(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(r.URL.Query().Get("phone"))
	if phone == "" {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: "phone", Message: domain.ErrPhoneRequired.Message},
		})
		return
	}

	orders, err := h.backend.TrackOrders(r.Context(), phone)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "track orders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orderResponses(orders))
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.backend.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "get order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, NewOrderResponse(order))
}

// List returns every order, optionally narrowed by ?q= and ?status=
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.backend.ListOrders(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "list orders")
		return
	}

	query := r.URL.Query()
	var status domain.OrderStatus
	if raw := query.Get("status"); raw != "" && raw != "all" {
		parsed, err := domain.ParseOrderStatus(raw)
		if err != nil {
			respondWithServiceError(w, h.logger, err, "list orders")
			return
		}
		status = parsed
	}

	middleware.RespondWithJSON(w, http.StatusOK, orderResponses(service.FilterOrders(orders, query.Get("q"), status)))
}

func (h *OrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.backend.GetOrderStats(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "get order stats")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, NewStatsResponse(stats))
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondWithDecodeError(w, h.logger, err)
		return
	}

	id := chi.URLParam(r, "id")
	order, err := h.backend.UpdateOrderStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "update order status")
		return
	}

	h.logger.Info("Order status updated", zap.String("order_id", id), zap.String("status", req.Status))
	middleware.RespondWithJSON(w, http.StatusOK, NewOrderResponse(order))
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deleted, err := h.backend.DeleteOrder(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "delete order")
		return
	}
	if !deleted {
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		return
	}

	h.logger.Info("Order deleted", zap.String("order_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "Order deleted"})
}

func orderResponses(orders []*domain.Order) []OrderResponse {
	response := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, NewOrderResponse(o))
	}
	return response
}
