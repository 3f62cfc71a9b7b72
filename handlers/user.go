package handlers

import (
	"net/http"

	"social_games_backend/models"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Responder
}

func NewUserHandler(responder Responder) *UserHandler {
	return &UserHandler{Responder: responder}
}

// GetUserInfo returns the account AuthMiddleware loaded for this request.
func (h *UserHandler) GetUserInfo(c *gin.Context) {
	user, ok := c.Get("user")
	if !ok {
		h.failure(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	h.success(c, "User info fetched successfully", user.(*models.User))
}
