package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"justissimo-api/apperrors"
)

const internalErrorMessage = "Erro interno do servidor!"

// statusFor maps use case errors onto HTTP status codes. Domain messages are
// already user facing and are returned as is.
func statusFor(err error) (int, string) {
	var validationErr *apperrors.ValidationError
	var domainErr *apperrors.DomainError
	var mailErr *apperrors.SendMailSchedulingError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &domainErr):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrLawyerNotFound),
		errors.Is(err, apperrors.ErrDivulgationNotFound):
		return http.StatusNotFound, err.Error()
	case errors.As(err, &mailErr):
		return http.StatusBadGateway, mailErr.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Tempo de requisição esgotado!"
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

func respondError(c *gin.Context, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		// picked up by middleware.ErrorHandler
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": message})
}
