package app

import (
	"context"

	"github.com/faceoff-game/server/internal/config"
	http_init "github.com/faceoff-game/server/internal/delivery/http/init"
	http_status "github.com/faceoff-game/server/internal/delivery/http/status"
	ws_game "github.com/faceoff-game/server/internal/delivery/ws/game"
	infra_memory_room "github.com/faceoff-game/server/internal/infra/memory/room"
	"github.com/faceoff-game/server/internal/service/sweeper"
	usecase_room "github.com/faceoff-game/server/internal/usecase/room"
)

func Go(cfg *config.Config) {
	roomRepository := infra_memory_room.New()
	roomUC := usecase_room.New(roomRepository)

	hub := ws_game.NewHub()
	handler := ws_game.NewHandler(roomUC, hub)

	if cfg.Rooms.TTL > 0 {
		expire := func(code string) {
			hub.ToAll(code, ws_game.Message{Event: ws_game.EventRoomExpired})
		}
		sw := sweeper.New(roomUC, expire, cfg.Rooms.TTL, cfg.Rooms.SweepInterval)
		go sw.Run(context.Background())
	}

	controllerPool := http_init.NewControllerPool()
	controllerPool.Add(http_status.New(roomUC))
	controllerPool.AddRoot(ws_game.NewController(hub, handler))

	controllerPool.Register()
	controllerPool.RunAll(cfg.HTTP.Port)
}
