package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "histograph/errors"
)

// statusForError maps domain failures to transport-level failure signals.
func statusForError(err error) int {
	switch {
	case apperrors.IsMalformedRequest(err):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err), apperrors.IsUnknownVersion(err):
		return http.StatusNotFound
	case apperrors.IsIntegrityViolation(err), apperrors.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError logs the technical error and returns a user-friendly message
func respondWithError(c *gin.Context, statusCode int, technicalError error, userMessage string, logger *zap.Logger, fields ...zap.Field) {
	// Log technical error with context
	if logger != nil {
		fields = append(fields, zap.Error(technicalError))
		logger.Error("Request failed", fields...)
	}

	// Return user-friendly message
	c.JSON(statusCode, gin.H{"error": userMessage})
}

// respondWithDomainError maps a domain error onto its HTTP status. Client
// errors (4xx) carry the error text and are not logged; unexpected failures
// are logged and masked behind a generic message.
func respondWithDomainError(c *gin.Context, err error, logger *zap.Logger, fields ...zap.Field) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		respondWithError(c, status, err, "internal server error", logger, fields...)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondWithClientError returns a client error (no logging needed for validation errors)
func respondWithClientError(c *gin.Context, statusCode int, userMessage string) {
	c.JSON(statusCode, gin.H{"error": userMessage})
}
