package ws_game

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	usecase_room "github.com/faceoff-game/server/internal/usecase/room"
)

// Channel is the publish/subscribe primitive addressing all current members
// of a room at once.
type Channel interface {
	Subscribe(code string, connID string)
	Unsubscribe(code string, connID string)
	ToAll(code string, msg Message)
	ToOthers(code string, senderID string, msg Message)
	ToClient(connID string, msg Message)
}

// Handler dispatches each inbound event to exactly one handling step that
// reads or mutates the room store and emits to the channel.
type Handler struct {
	rooms   *usecase_room.Usecase
	channel Channel
	logger  *slog.Logger
}

func NewHandler(rooms *usecase_room.Usecase, channel Channel) *Handler {
	return &Handler{
		rooms:   rooms,
		channel: channel,
		logger:  slog.Default(),
	}
}

type roomRef struct {
	RoomCode string `json:"roomCode"`
}

func (h *Handler) Handle(ctx context.Context, connID string, env Envelope) {
	switch env.Event {
	case EventCreateRoom:
		h.createRoom(ctx, connID)
	case EventJoinRoom:
		h.joinRoom(ctx, connID, env.Data)
	case EventWantsRematch:
		h.requestRematch(ctx, connID, env.Data)
	case EventLeftRoom:
		h.leaveRoom(ctx, connID, env.Data)
	default:
		if rule, ok := relayPolicy[env.Event]; ok {
			h.relay(ctx, connID, env, rule)
			return
		}
		h.logger.Warn("unknown event", "conn", connID, "event", env.Event)
	}
}

func (h *Handler) createRoom(ctx context.Context, connID string) {
	code, err := h.rooms.Create(ctx, connID)
	if err != nil {
		h.logger.Error("failed to create room", "conn", connID, "error", err.Error())
		h.channel.ToClient(connID, Message{Event: EventRoomCreated, Data: Ack{
			Success: false,
			Error:   AckErrRoomsUnavailable,
		}})
		return
	}

	h.channel.Subscribe(code, connID)
	h.channel.ToClient(connID, Message{Event: EventRoomCreated, Data: Ack{
		Success:      true,
		RoomCode:     code,
		PlayerNumber: 1,
	}})
}

func (h *Handler) joinRoom(ctx context.Context, connID string, data json.RawMessage) {
	var ref roomRef
	_ = json.Unmarshal(data, &ref)

	host, err := h.rooms.Join(ctx, ref.RoomCode, connID)
	if err != nil {
		ack := Ack{Success: false, Error: AckErrRoomNotFound}
		if errors.Is(err, usecase_room.ErrRoomFull) {
			ack.Error = AckErrRoomFull
		}
		h.channel.ToClient(connID, Message{Event: EventRoomJoined, Data: ack})
		return
	}

	h.channel.Subscribe(ref.RoomCode, connID)

	// Only the host is told; the channel at large is not.
	h.channel.ToClient(host, Message{Event: EventPlayerJoined})

	h.channel.ToClient(connID, Message{Event: EventRoomJoined, Data: Ack{
		Success:      true,
		RoomCode:     ref.RoomCode,
		PlayerNumber: 2,
	}})
}

// relay forwards a gameplay event per the policy table. The payload is
// opaque; the room code is only used to address the channel.
func (h *Handler) relay(ctx context.Context, connID string, env Envelope, rule relayRule) {
	var ref roomRef
	_ = json.Unmarshal(env.Data, &ref)

	// A new match voids any pending rematch agreement. Ignoring the error
	// keeps relaying a no-op for unknown rooms.
	if env.Event == EventStartGame {
		_ = h.rooms.ResetRematch(ctx, ref.RoomCode)
	}

	msg := Message{Event: rule.outbound, Data: rule.payload(env.Data)}
	switch rule.scope {
	case scopeAll:
		h.channel.ToAll(ref.RoomCode, msg)
	default:
		h.channel.ToOthers(ref.RoomCode, connID, msg)
	}
}

func (h *Handler) requestRematch(ctx context.Context, connID string, data json.RawMessage) {
	var ref roomRef
	_ = json.Unmarshal(data, &ref)

	confirmed, err := h.rooms.RequestRematch(ctx, ref.RoomCode, connID)
	if err != nil {
		// Stale room or non-member: dropped without an error surface.
		h.logger.Debug("rematch request dropped", "conn", connID, "room", ref.RoomCode)
		return
	}

	h.channel.ToOthers(ref.RoomCode, connID, Message{Event: EventOpponentWantsRematch})
	if confirmed {
		h.channel.ToAll(ref.RoomCode, Message{Event: EventRematchConfirmed})
	}
}

func (h *Handler) leaveRoom(ctx context.Context, connID string, data json.RawMessage) {
	var ref roomRef
	_ = json.Unmarshal(data, &ref)

	h.channel.ToOthers(ref.RoomCode, connID, Message{Event: EventOpponentLeft})
	h.channel.Unsubscribe(ref.RoomCode, connID)

	if err := h.rooms.Leave(ctx, ref.RoomCode); err != nil {
		h.logger.Debug("leave on unknown room", "conn", connID, "room", ref.RoomCode)
	}
}

// HandleDisconnect runs on loss of a connection, before the hub unregisters
// it. Every room referencing the connection is torn down; the whole channel,
// departing client harmlessly included, gets the notification.
func (h *Handler) HandleDisconnect(ctx context.Context, connID string) {
	codes, err := h.rooms.Disconnect(ctx, connID)
	if err != nil {
		h.logger.Error("disconnect cleanup failed", "conn", connID, "error", err.Error())
		return
	}

	for _, code := range codes {
		h.channel.ToAll(code, Message{Event: EventOpponentDisconnected})
	}
}
