// Package http provides HTTP handlers for registration, login and user administration.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/centrala/rainfall-gate/internal/httputil"
	"github.com/centrala/rainfall-gate/internal/user/domain"
	"github.com/centrala/rainfall-gate/internal/user/http/dto"
	"github.com/centrala/rainfall-gate/internal/user/usecase"
)

// CookieConfig describes the cookie that carries the credential after login.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	userUseCase usecase.UseCase
	cookie      CookieConfig
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUseCase usecase.UseCase, cookie CookieConfig, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		cookie:      cookie,
		logger:      logger,
	}
}

// RegisterHandler creates an account and returns its first credential.
// POST /api/register
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	output, err := h.userUseCase.Register(c.Request.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("user registered", slog.String("user_id", output.User.ID.String()))
	c.JSON(http.StatusCreated, dto.RegisterResponse{APIKey: output.Credential})
}

// LoginHandler authenticates by email and password, sets the credential cookie
// and returns the token in the body.
// POST /api/login
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	output, err := h.userUseCase.Login(c.Request.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, output.Token, int(h.cookie.MaxAge.Seconds()), "/", "", h.cookie.Secure, true)

	c.JSON(http.StatusOK, dto.LoginResponse{
		Email:     output.User.Email,
		Token:     output.Token,
		IsAdmin:   output.User.IsAdmin,
		CreatedAt: output.User.CreatedAt,
	})
}

// LogoutHandler clears the credential cookie. No authentication is required.
// POST /api/logout
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, httputil.MessageResponse{Message: "Logged out successfully"})
}

// ListHandler returns users newest first.
// GET /admin/users?offset=0&limit=50
func (h *UserHandler) ListHandler(c *gin.Context) {
	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	users, err := h.userUseCase.List(c.Request.Context(), page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUsersToListResponse(users))
}

// CreateHandler creates an account on behalf of an administrator. Any isAdmin
// in the body is ignored; elevation follows the admin email rule.
// POST /admin/users
func (h *UserHandler) CreateHandler(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	output, err := h.userUseCase.Create(c.Request.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("user created by administrator", slog.String("user_id", output.User.ID.String()))
	c.JSON(http.StatusCreated, dto.MapCreatedUserToResponse(output.User, output.Credential))
}

// DeleteHandler removes a user. An id that is not a UUID is reported as not found.
// DELETE /admin/users/:id
func (h *UserHandler) DeleteHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, domain.ErrUserNotFound, h.logger)
		return
	}

	if err := h.userUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("user deleted", slog.String("user_id", id.String()))
	c.JSON(http.StatusOK, httputil.MessageResponse{Message: "User deleted successfully"})
}
