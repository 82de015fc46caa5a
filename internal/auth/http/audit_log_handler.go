package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centrala/rainfall-gate/internal/auth/domain"
	"github.com/centrala/rainfall-gate/internal/auth/http/dto"
	authUseCase "github.com/centrala/rainfall-gate/internal/auth/usecase"
	"github.com/centrala/rainfall-gate/internal/httputil"
)

// AuditLogHandler handles HTTP requests for audit log operations.
type AuditLogHandler struct {
	auditLogUseCase authUseCase.AuditLogUseCase
	logger          *slog.Logger
}

// NewAuditLogHandler creates a new audit log handler with required dependencies.
func NewAuditLogHandler(auditLogUseCase authUseCase.AuditLogUseCase, logger *slog.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUseCase: auditLogUseCase,
		logger:          logger,
	}
}

// ListHandler returns security audit events newest first.
// GET /admin/audit-logs?offset=0&limit=50
// Returns an empty list when the audit sink is log-only.
func (h *AuditLogHandler) ListHandler(c *gin.Context) {
	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	auditLogs, err := h.auditLogUseCase.List(c.Request.Context(), page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditLogsToListResponse(auditLogs))
}

// MeHandler echoes the identity resolved from the request's credential.
// GET /api/me
func MeHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, domain.ErrUnauthenticated, logger)
			return
		}
		c.JSON(http.StatusOK, dto.MapIdentityToResponse(identity))
	}
}
