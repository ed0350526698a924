package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"medocr/internal/domain"
	"medocr/internal/middleware"
)

// APIResponse is the standard envelope for all API responses. Exactly one of
// Data and Error is set.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Stable error codes surfaced to callers.
const (
	CodeInvalidInput         = "INVALID_INPUT"
	CodePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
	CodeAuthFailed           = "AUTH_FAILED"
	CodeQuotaExceeded        = "QUOTA_EXCEEDED"
	CodeModelNotFound        = "MODEL_NOT_FOUND"
	CodeOCRProcessingFailed  = "OCR_PROCESSING_FAILED"
	CodeNotFound             = "NOT_FOUND"
	defaultInternalErrorText = "Failed to process medical document"
)

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondOKWithMeta sends a 200 success response with metadata.
func RespondOKWithMeta(c *gin.Context, data, meta interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates classified errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var de *domain.Error
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, CodeOCRProcessingFailed, defaultInternalErrorText
	}

	switch de.Kind {
	case domain.KindMissingInput, domain.KindInvalidInput, domain.KindUnsupportedMediaType, domain.KindDocumentConversionFailed:
		return http.StatusBadRequest, CodeInvalidInput, de.Message
	case domain.KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge, CodePayloadTooLarge, de.Message
	case domain.KindAuthenticationFailed:
		if de.Status == http.StatusForbidden {
			return http.StatusForbidden, CodeAuthFailed, de.Message
		}
		return http.StatusUnauthorized, CodeAuthFailed, de.Message
	case domain.KindQuotaExceeded:
		return http.StatusTooManyRequests, CodeQuotaExceeded, de.Message
	case domain.KindModelNotFound:
		return http.StatusNotFound, CodeModelNotFound, de.Message
	case domain.KindProviderUnreachable:
		return http.StatusBadGateway, CodeOCRProcessingFailed, de.Message
	case domain.KindRouteNotFound:
		return http.StatusNotFound, CodeNotFound, de.Message
	default:
		return http.StatusInternalServerError, CodeOCRProcessingFailed, de.Message
	}
}

// HandleError is the single failure handler: it logs err with full detail and
// sends the mapped error envelope.
func HandleError(c *gin.Context, logger *slog.Logger, err error) {
	status, code, msg := MapDomainError(err)

	attrs := []interface{}{
		"request_id", middleware.GetRequestID(c),
		"status", status,
		"code", code,
		"error", err,
	}
	if status >= 500 {
		logger.Error("request failed", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	RespondError(c, status, code, msg)
}
