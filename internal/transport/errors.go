package transport

import (
	"errors"
	"net/http"

	"purefood/internal/domain"
	"purefood/internal/middleware"
	"purefood/internal/repository"
	"purefood/internal/service"

	"go.uber.org/zap"
)

// respondWithServiceError maps backend errors onto HTTP statuses
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		logger.Debug(action+" rejected", zap.Error(err))
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: validationErr.Field, Message: validationErr.Message},
		})
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrOrderNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		middleware.RespondWithError(w, http.StatusUnauthorized, "invalid username or password")
	default:
		logger.Error(action+" failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

// respondWithDecodeError answers a body that failed DecodeAndValidate
func respondWithDecodeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	logger.Debug("Request validation failed", zap.Error(err))
	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}
	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
}
