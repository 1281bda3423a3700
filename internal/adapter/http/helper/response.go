package helper

import (
	"errors"
	"net/http"

	. "shopcatalog/internal/adapter/http/validation"
	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

func SendSuccess(c *gin.Context, statusCode int, data any, message ...string) {
	response := response.SuccessResponse{
		Data: data,
	}

	if len(message) > 0 && message[0] != "" {
		response.Message = message[0]
	}

	c.JSON(statusCode, response)
}

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.JSON(statusCode, errorResponse)
}

func SendValidationError(c *gin.Context, err error) {
	validationErrors := FormatValidationErrors(err)
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErrors)
}

func SendInternalError(c *gin.Context, message string, details ...any) {
	errors := []response.ValidationError{
		{
			Field:   "server",
			Message: message,
		},
	}

	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", errors, details...)
}

func SendUnauthorizedError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "auth",
			Message: message,
		},
	}

	SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", errors)
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	errors := []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}

	SendError(c, http.StatusBadRequest, "BAD_REQUEST", errors)
}

func SendNotFoundError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "resource",
			Message: message,
		},
	}

	SendError(c, http.StatusNotFound, "NOT_FOUND", errors)
}

func SendConflictError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "version",
			Message: message,
		},
	}

	SendError(c, http.StatusConflict, "VERSION_CONFLICT", errors)
}

// SendDomainError maps the service error taxonomy onto HTTP status codes.
// Cache unavailability never reaches here because services degrade to the
// repository instead of failing reads.
func SendDomainError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		fieldErrors := make([]response.ValidationError, 0, len(validationErr.Fields))
		for _, fe := range validationErr.Fields {
			fieldErrors = append(fieldErrors, response.ValidationError{
				Field:   fe.Field,
				Message: fe.Message,
			})
		}

		SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", fieldErrors)
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		SendNotFoundError(c, "Resource not found")
	case errors.Is(err, domain.ErrConflict):
		SendConflictError(c, "Version conflict, reload and retry")
	default:
		SendInternalError(c, "Internal server error")
	}
}
