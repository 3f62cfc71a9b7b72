package handlers

import (
	"errors"
	"net/http"
	"strings"

	"social_games_backend/logging"
	"social_games_backend/middleware"
	"social_games_backend/models"
	"social_games_backend/repository"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users        repository.UserRepository
	tokenService *middleware.TokenService
	Responder
}

func NewAuthHandler(users repository.UserRepository, tokenService *middleware.TokenService, responder Responder) *AuthHandler {
	return &AuthHandler{
		users:        users,
		tokenService: tokenService,
		Responder:    responder,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	hashedPassword, err := middleware.HashPassword(req.Password)
	if err != nil {
		h.fail(c, err, "Failed to process password")
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hashedPassword,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			h.failure(c, http.StatusBadRequest, "Email already registered", nil)
			return
		}
		h.fail(c, err, "Failed to create user")
		return
	}

	h.issueTokens(c, user, "User registered successfully")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !middleware.VerifyPassword(user.PasswordHash, req.Password)) {
		h.failure(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to verify credentials")
		return
	}

	h.issueTokens(c, user, "Login successful")
}

// RefreshToken swaps a refresh token for a new pair. The old one stops working.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req models.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	userID, err := h.tokenService.ValidateRefreshToken(ctx, req.RefreshToken)
	if errors.Is(err, middleware.ErrInvalidRefreshToken) {
		h.failure(c, http.StatusUnauthorized, "Invalid refresh token", nil)
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to refresh token")
		return
	}

	user, err := h.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		h.failure(c, http.StatusUnauthorized, "Invalid refresh token", nil)
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to refresh token")
		return
	}

	if err := h.tokenService.InvalidateRefreshToken(ctx, req.RefreshToken); err != nil {
		h.fail(c, err, "Failed to refresh token")
		return
	}

	h.issueTokens(c, user, "Token refreshed successfully")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.tokenService.RevokeRefreshToken(c.Request.Context(), c.GetInt("userID"), req.RefreshToken); err != nil {
		h.fail(c, err, "Failed to logout")
		return
	}

	h.success(c, "Successfully logged out", nil)
}

func (h *AuthHandler) issueTokens(c *gin.Context, user *models.User, message string) {
	tokens, err := h.tokenService.GenerateTokens(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, err, "Failed to generate tokens")
		return
	}

	logging.FromContext(c).Info("issued tokens", "user_id", user.ID)
	h.success(c, message, models.LoginResponse{TokenPair: *tokens, User: *user})
}
