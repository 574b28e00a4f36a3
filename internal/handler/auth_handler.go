package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alextrocado/edumanage/internal/model"
	"github.com/alextrocado/edumanage/internal/repository"
	"github.com/alextrocado/edumanage/internal/response"
	"github.com/alextrocado/edumanage/internal/service"
	"github.com/alextrocado/edumanage/internal/validator"
)

// AuthHandler handles login, logout and the local profile passphrase.
type AuthHandler struct {
	authService  *service.AuthService
	stateService *service.StateService
	userRepo     *repository.UserRepository
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, stateService *service.StateService, userRepo *repository.UserRepository) *AuthHandler {
	return &AuthHandler{authService: authService, stateService: stateService, userRepo: userRepo}
}

// Login godoc
// POST /api/v1/auth/login
// Validates the credential pair and returns a bearer token. The response
// never reveals whether the user or the password was wrong.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userRepo.GetByUsername(c.Request.Context(), req.User)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(user.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateToken(c.Request.Context(), user)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, model.LoginResponse{Token: token, User: *user})
}

// Logout godoc
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), userID(c)); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"logged_out": true})
}

// Me godoc
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.userRepo.GetByUsername(c.Request.Context(), userID(c))
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// Unlock godoc
// POST /api/v1/auth/unlock
// Checks the independent local passphrase gating the cached profile.
func (h *AuthHandler) Unlock(c *gin.Context) {
	var req model.UnlockRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	data, err := h.stateService.Load(c.Request.Context(), userID(c))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if err := h.authService.CheckAppPassword(data.Config, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrLocked)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"unlocked": true})
}
