package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerworks/books_backend/internal/apperrors"
	"github.com/ledgerworks/books_backend/internal/middleware"
)

// statusForError maps service errors to HTTP status codes. Invariant
// violations that describe a conflict with current state map to 409; amounts
// that fail an accounting rule map to 422.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrAlreadyPostedDifferentPayload),
		errors.Is(err, apperrors.ErrPeriodClosed),
		errors.Is(err, apperrors.ErrImmutableEntry),
		errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrAccountInUse):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnbalancedEntry),
		errors.Is(err, apperrors.ErrExceedsOutstanding),
		errors.Is(err, apperrors.ErrExceedsTransactionCapacity),
		errors.Is(err, apperrors.ErrAlreadyFullyDepreciated):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrEmptyEntry),
		errors.Is(err, apperrors.ErrTenantMismatch),
		errors.Is(err, apperrors.ErrInvalidReference):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes the error response for a failed service call.
// Internal failures are logged and masked with a generic message.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, action string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "failed to " + action})
		return
	}
	logger.Warn("Rejected request to "+action, slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}

// requestScope pulls the tenant, actor, and request logger out of the Gin
// context. Aborts with 400 when the tenant middleware did not run.
func requestScope(c *gin.Context) (tenantID string, actor string, logger *slog.Logger, ok bool) {
	logger = middleware.GetLoggerFromContext(c)
	tenantID, ok = middleware.GetTenantIDFromContext(c)
	if !ok {
		logger.Error("Tenant ID not found in context")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing tenant context"})
		return "", "", logger, false
	}
	actor, _ = middleware.GetActorIDFromContext(c)
	return tenantID, actor, logger, true
}
