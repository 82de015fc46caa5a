// Package http provides HTTP handlers for access request submission and review.
package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/centrala/rainfall-gate/internal/accessrequest/domain"
	"github.com/centrala/rainfall-gate/internal/accessrequest/http/dto"
	"github.com/centrala/rainfall-gate/internal/accessrequest/usecase"
	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
	authHTTP "github.com/centrala/rainfall-gate/internal/auth/http"
	"github.com/centrala/rainfall-gate/internal/httputil"
)

// AccessRequestHandler handles HTTP requests for access requests.
type AccessRequestHandler struct {
	useCase usecase.UseCase
	logger  *slog.Logger
}

// NewAccessRequestHandler creates a new AccessRequestHandler.
func NewAccessRequestHandler(useCase usecase.UseCase, logger *slog.Logger) *AccessRequestHandler {
	return &AccessRequestHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// SubmitHandler opens a pending request for the authenticated user.
// POST /api/request-access
func (h *AccessRequestHandler) SubmitHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrUnauthenticated, h.logger)
		return
	}

	var req dto.SubmitRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	output, err := h.useCase.Submit(c.Request.Context(), *identity, req.Reason)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSubmitOutputToResponse(output))
}

// ListHandler returns all requests newest first with the requesting user's email.
// GET /admin/requests?offset=0&limit=50
func (h *AccessRequestHandler) ListHandler(c *gin.Context) {
	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	views, err := h.useCase.List(c.Request.Context(), page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapViewsToListResponse(views))
}

// ApproveHandler approves a pending request and returns the minted credential.
// POST /admin/requests/:id/approve
func (h *AccessRequestHandler) ApproveHandler(c *gin.Context) {
	reviewer, requestID, ok := h.reviewTarget(c)
	if !ok {
		return
	}

	var req dto.ApproveRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	output, err := h.useCase.Approve(c.Request.Context(), requestID, *reviewer, req.AdminNotes)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("access request approved",
		slog.String("request_id", requestID.String()),
		slog.String("user_id", output.User.ID.String()),
		slog.String("reviewed_by", reviewer.UserID.String()),
	)
	c.JSON(http.StatusOK, dto.MapApproveOutputToResponse(output))
}

// RejectHandler rejects a pending request with a reason of at least five characters.
// POST /admin/requests/:id/reject
func (h *AccessRequestHandler) RejectHandler(c *gin.Context) {
	reviewer, requestID, ok := h.reviewTarget(c)
	if !ok {
		return
	}

	var req dto.RejectRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	request, err := h.useCase.Reject(c.Request.Context(), requestID, *reviewer, req.Reason)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("access request rejected",
		slog.String("request_id", requestID.String()),
		slog.String("reviewed_by", reviewer.UserID.String()),
	)
	c.JSON(http.StatusOK, dto.MapRejectedToResponse(request))
}

// reviewTarget resolves the reviewing identity and the request id from the path.
// An id that is not a UUID cannot name a request, so it is reported as not found.
func (h *AccessRequestHandler) reviewTarget(c *gin.Context) (*authDomain.Identity, uuid.UUID, bool) {
	reviewer, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrUnauthenticated, h.logger)
		return nil, uuid.Nil, false
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, domain.ErrRequestNotFound, h.logger)
		return nil, uuid.Nil, false
	}

	return reviewer, requestID, true
}

// bindOptionalJSON decodes the body into dst, accepting an empty body.
func (h *AccessRequestHandler) bindOptionalJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return false
	}
	return true
}
