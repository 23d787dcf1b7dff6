package ws_game

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Controller upgrades HTTP requests to WebSocket sessions and runs the read
// loop. One upgraded connection is one participant.
type Controller struct {
	hub      *Hub
	handler  *Handler
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewController(hub *Hub, handler *Handler) *Controller {
	return &Controller{
		hub:     hub,
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ws", c.serve)
}

func (c *Controller) serve(ctx *gin.Context) {
	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("failed to upgrade connection", "error", err.Error())
		return
	}

	client := NewClient(uuid.New().String(), conn)
	c.hub.Register(client)
	go c.hub.StartClientWriting(client)

	c.read(ctx.Request.Context(), client)
}

// read pumps inbound envelopes into the handler one at a time, which
// preserves sender order for this connection. A read error is the implicit
// disconnect signal.
func (c *Controller) read(ctx context.Context, client *Client) {
	defer func() {
		// The request context is gone once the socket drops; teardown runs
		// on its own context.
		c.handler.HandleDisconnect(context.Background(), client.ID)
		c.hub.Unregister(client.ID)
	}()

	for {
		var env Envelope
		if err := client.conn.ReadJSON(&env); err != nil {
			return
		}
		c.handler.Handle(ctx, client.ID, env)
	}
}
