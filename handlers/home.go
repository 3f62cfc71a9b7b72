package handlers

import (
	"context"

	"social_games_backend/models"

	"github.com/gin-gonic/gin"
)

type HomeService interface {
	HomeInfo(ctx context.Context, ownerID int) (*models.HomeInfo, error)
	ActiveGames(ctx context.Context, ownerID int) (*models.ActiveGames, error)
}

type HomeHandler struct {
	home HomeService
	Responder
}

func NewHomeHandler(home HomeService, responder Responder) *HomeHandler {
	return &HomeHandler{home: home, Responder: responder}
}

func (h *HomeHandler) GetHomeInfo(c *gin.Context) {
	info, err := h.home.HomeInfo(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		h.fail(c, err, "Error fetching user home page info")
		return
	}
	h.success(c, "User home page info fetched successfully", info)
}

func (h *HomeHandler) GetActiveGamesInfo(c *gin.Context) {
	games, err := h.home.ActiveGames(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		h.fail(c, err, "Error fetching user active games info")
		return
	}
	h.success(c, "User active games info fetched successfully", games)
}
