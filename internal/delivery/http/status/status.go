package http_status

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	usecase_room "github.com/faceoff-game/server/internal/usecase/room"
)

type Controller struct {
	rooms  *usecase_room.Usecase
	logger *slog.Logger
}

func New(rooms *usecase_room.Usecase) *Controller {
	return &Controller{
		rooms:  rooms,
		logger: slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", c.status)
}

type StatusResponseDTO struct {
	Rooms int `json:"rooms"`
}

func (c *Controller) status(ctx *gin.Context) {
	count, err := c.rooms.Count(ctx)
	if err != nil {
		c.logger.Error("failed to count rooms", "error", err.Error())
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, StatusResponseDTO{Rooms: count})
}
