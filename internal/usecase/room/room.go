package usecase_room

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/faceoff-game/server/internal/model"
)

var (
	ErrCodeConflict     = errors.New("code conflict")
	ErrRoomsUnavailable = errors.New("no available rooms")
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrNotParticipant   = errors.New("not a participant")
	ErrInternal         = errors.New("internal error")
)

//go:generate mockery --name=RoomRepository --output=./mocks/repository --filename=repository.go

// RoomRepository owns the active-room map. Every method is atomic with
// respect to the others, which is what keeps single-event handling
// consistent under concurrent connections.
type RoomRepository interface {
	Create(ctx context.Context, room model.Room) error
	AppendPlayer(ctx context.Context, code string, connID string) (model.Room, error)
	AddRematchRequest(ctx context.Context, code string, connID string) (bool, error)
	ClearRematchRequests(ctx context.Context, code string) error
	Delete(ctx context.Context, code string) error
	DeleteByPlayer(ctx context.Context, connID string) ([]string, error)
	DeleteExpired(ctx context.Context, idle time.Duration) ([]string, error)
	Count(ctx context.Context) (int, error)
}

type Usecase struct {
	rooms  RoomRepository
	logger *slog.Logger
}

func New(rooms RoomRepository) *Usecase {
	return &Usecase{
		rooms:  rooms,
		logger: slog.Default(),
	}
}

// Assuming that codes can conflict.
// Retrying...
func (u *Usecase) Create(ctx context.Context, connID string) (string, error) {
	var retries = 3
	for retries > 0 {
		code := u.buildRoomCode()
		if err := u.rooms.Create(ctx, model.NewRoom(code, connID)); err != nil {
			if errors.Is(err, ErrCodeConflict) {
				retries--
				continue
			}
			return "", errors.Join(ErrInternal, err)
		}
		u.logger.Info("room created", "room", code, "host", connID)
		return code, nil
	}
	return "", ErrRoomsUnavailable
}

func (u *Usecase) buildRoomCode() string {
	const codeLen = 6
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	var builder strings.Builder
	builder.Grow(codeLen)

	for i := 0; i < codeLen; i++ {
		builder.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}

	return builder.String()
}

// Join admits a second participant and returns the host's connection ID so
// the caller can notify the host directly.
func (u *Usecase) Join(ctx context.Context, code string, connID string) (string, error) {
	room, err := u.rooms.AppendPlayer(ctx, code, connID)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) || errors.Is(err, ErrRoomFull) {
			return "", err
		}
		return "", errors.Join(ErrInternal, err)
	}

	u.logger.Info("player joined", "room", code, "player", connID)
	return room.Host, nil
}

// RequestRematch records connID's consent. Re-requesting is idempotent: a
// single participant retrying can never force confirmation alone. The
// confirmed flag is true exactly when both participants have consented since
// the last reset; the repository clears the set in the same atomic step.
func (u *Usecase) RequestRematch(ctx context.Context, code string, connID string) (bool, error) {
	confirmed, err := u.rooms.AddRematchRequest(ctx, code, connID)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) || errors.Is(err, ErrNotParticipant) {
			return false, err
		}
		return false, errors.Join(ErrInternal, err)
	}

	if confirmed {
		u.logger.Info("rematch confirmed", "room", code)
	}
	return confirmed, nil
}

// ResetRematch drops any pending rematch consent, so a stale agreement from
// a previous match cannot leak into the next one.
func (u *Usecase) ResetRematch(ctx context.Context, code string) error {
	if err := u.rooms.ClearRematchRequests(ctx, code); err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return err
		}
		return errors.Join(ErrInternal, err)
	}
	return nil
}

// Leave deletes the room unconditionally. Rooms are atomic two-party units:
// there is no path that removes one player and keeps the room alive.
func (u *Usecase) Leave(ctx context.Context, code string) error {
	if err := u.rooms.Delete(ctx, code); err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return err
		}
		return errors.Join(ErrInternal, err)
	}

	u.logger.Info("room deleted", "room", code, "reason", "player left")
	return nil
}

// Disconnect tears down every room the connection participates in and
// returns their codes. Normally that is at most one room; more than one
// means a client misbehaved, and all of them go.
func (u *Usecase) Disconnect(ctx context.Context, connID string) ([]string, error) {
	codes, err := u.rooms.DeleteByPlayer(ctx, connID)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	for _, code := range codes {
		u.logger.Info("room deleted", "room", code, "reason", "player disconnected")
	}
	return codes, nil
}

// Sweep deletes rooms idle longer than the given duration and returns their
// codes.
func (u *Usecase) Sweep(ctx context.Context, idle time.Duration) ([]string, error) {
	codes, err := u.rooms.DeleteExpired(ctx, idle)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return codes, nil
}

func (u *Usecase) Count(ctx context.Context) (int, error) {
	count, err := u.rooms.Count(ctx)
	if err != nil {
		return 0, errors.Join(ErrInternal, err)
	}
	return count, nil
}
