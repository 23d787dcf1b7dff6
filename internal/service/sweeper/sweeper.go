package sweeper

import (
	"context"
	"log/slog"
	"time"

	usecase_room "github.com/faceoff-game/server/internal/usecase/room"
)

// Sweeper periodically removes rooms whose network path died without ever
// raising a disconnect. It is an operational safeguard, not part of the room
// lifecycle: with it disabled, rooms live until a participant leaves or
// drops.
type Sweeper struct {
	rooms    *usecase_room.Usecase
	notify   func(code string)
	idle     time.Duration
	interval time.Duration
	logger   *slog.Logger
}

func New(rooms *usecase_room.Usecase, notify func(code string), idle, interval time.Duration) *Sweeper {
	return &Sweeper{
		rooms:    rooms,
		notify:   notify,
		idle:     idle,
		interval: interval,
		logger:   slog.Default(),
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	codes, err := s.rooms.Sweep(ctx, s.idle)
	if err != nil {
		s.logger.Error("sweep failed", "error", err.Error())
		return
	}

	for _, code := range codes {
		s.logger.Info("room expired", "room", code, "idle", s.idle.String())
		s.notify(code)
	}
}
