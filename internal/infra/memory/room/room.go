package infra_memory_room

import (
	"context"
	"sync"
	"time"

	"github.com/faceoff-game/server/internal/model"
	usecase_room "github.com/faceoff-game/server/internal/usecase/room"
)

// Driver keeps the active-room map in process memory. Rooms do not survive a
// restart, which is the intended lifecycle for these sessions.
//
// The single mutex makes every repository operation atomic, including the
// rematch read-modify-write.
type Driver struct {
	mu    sync.RWMutex
	rooms map[string]*model.Room
}

func New() *Driver {
	return &Driver{
		rooms: make(map[string]*model.Room),
	}
}

func (d *Driver) Create(_ context.Context, room model.Room) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.rooms[room.Code]; exists {
		return usecase_room.ErrCodeConflict
	}

	d.rooms[room.Code] = &room
	return nil
}

func (d *Driver) AppendPlayer(_ context.Context, code string, connID string) (model.Room, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, exists := d.rooms[code]
	if !exists {
		return model.Room{}, usecase_room.ErrRoomNotFound
	}
	if room.IsFull() {
		return model.Room{}, usecase_room.ErrRoomFull
	}

	room.Players = append(room.Players, connID)
	room.LastActive = time.Now()

	return clone(room), nil
}

// AddRematchRequest adds connID to the room's rematch set. When the set
// reaches both participants it is cleared and true is returned, all within
// the same lock hold.
func (d *Driver) AddRematchRequest(_ context.Context, code string, connID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, exists := d.rooms[code]
	if !exists {
		return false, usecase_room.ErrRoomNotFound
	}
	if !room.HasPlayer(connID) {
		return false, usecase_room.ErrNotParticipant
	}

	room.RematchRequests[connID] = struct{}{}
	room.LastActive = time.Now()

	if len(room.Players) == model.MaxPlayers && len(room.RematchRequests) == len(room.Players) {
		room.RematchRequests = make(map[string]struct{})
		return true, nil
	}
	return false, nil
}

func (d *Driver) ClearRematchRequests(_ context.Context, code string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, exists := d.rooms[code]
	if !exists {
		return usecase_room.ErrRoomNotFound
	}

	room.RematchRequests = make(map[string]struct{})
	room.LastActive = time.Now()
	return nil
}

func (d *Driver) Delete(_ context.Context, code string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.rooms[code]; !exists {
		return usecase_room.ErrRoomNotFound
	}

	delete(d.rooms, code)
	return nil
}

func (d *Driver) DeleteByPlayer(_ context.Context, connID string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var codes []string
	for code, room := range d.rooms {
		if room.HasPlayer(connID) {
			codes = append(codes, code)
			delete(d.rooms, code)
		}
	}
	return codes, nil
}

func (d *Driver) DeleteExpired(_ context.Context, idle time.Duration) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	deadline := time.Now().Add(-idle)

	var codes []string
	for code, room := range d.rooms {
		if room.LastActive.Before(deadline) {
			codes = append(codes, code)
			delete(d.rooms, code)
		}
	}
	return codes, nil
}

func (d *Driver) Count(_ context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms), nil
}

// Get is not part of the repository contract; tests use it to inspect state.
func (d *Driver) Get(_ context.Context, code string) (model.Room, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	room, exists := d.rooms[code]
	if !exists {
		return model.Room{}, usecase_room.ErrRoomNotFound
	}
	return clone(room), nil
}

func clone(room *model.Room) model.Room {
	out := *room
	out.Players = append([]string(nil), room.Players...)
	out.RematchRequests = make(map[string]struct{}, len(room.RematchRequests))
	for id := range room.RematchRequests {
		out.RematchRequests[id] = struct{}{}
	}
	return out
}
