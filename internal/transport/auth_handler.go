package transport

import (
	"net/http"

	"purefood/internal/middleware"
	"purefood/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthHandler handles admin login
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/auth/login", h.Login)
}

// Login exchanges admin credentials for a bearer token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondWithDecodeError(w, h.logger, err)
		return
	}

	token, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warn("Admin login failed", zap.String("username", req.Username))
		respondWithServiceError(w, h.logger, err, "login")
		return
	}

	h.logger.Info("Admin logged in", zap.String("username", req.Username))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{Token: token, Username: req.Username})
}
