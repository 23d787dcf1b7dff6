package ws_game

import "encoding/json"

// Inbound events.
const (
	EventCreateRoom     = "create-room"
	EventJoinRoom       = "join-room"
	EventSyncRoster     = "sync-roster"
	EventSyncSelected   = "sync-selected"
	EventStartGame      = "start-game"
	EventPickSecret     = "pick-secret"
	EventSyncEliminated = "sync-eliminated"
	EventEndTurn        = "end-turn"
	EventMakeGuess      = "make-guess"
	EventGameWon        = "game-won"
	EventResetGame      = "reset-game"
	EventWantsRematch   = "player-wants-rematch"
	EventLeftRoom       = "player-left-room"
)

// Outbound events.
const (
	EventRoomCreated          = "room-created"
	EventRoomJoined           = "room-joined"
	EventPlayerJoined         = "player-joined"
	EventRosterSynced         = "roster-synced"
	EventSelectedSynced       = "selected-synced"
	EventGameStarted          = "game-started"
	EventSecretPicked         = "secret-picked"
	EventEliminatedSynced     = "eliminated-synced"
	EventTurnEnded            = "turn-ended"
	EventGuessMade            = "guess-made"
	EventGameReset            = "game-reset"
	EventOpponentWantsRematch = "opponent-wants-rematch"
	EventRematchConfirmed     = "rematch-confirmed"
	EventOpponentLeft         = "opponent-left"
	EventOpponentDisconnected = "opponent-disconnected"
	EventRoomExpired          = "room-expired"
)

// Ack error strings, part of the wire contract.
const (
	AckErrRoomNotFound     = "Room not found"
	AckErrRoomFull         = "Room is full"
	AckErrRoomsUnavailable = "Rooms unavailable"
)

// Envelope is an inbound client message. Data stays raw: gameplay payloads
// are opaque to the server and forwarded as-is.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Message is an outbound server message.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Ack answers a create-room or join-room request. Exactly one ack is sent
// per request, success or failure.
type Ack struct {
	Success      bool   `json:"success"`
	RoomCode     string `json:"roomCode,omitempty"`
	PlayerNumber int    `json:"playerNumber,omitempty"`
	Error        string `json:"error,omitempty"`
}

type broadcastScope int

const (
	// scopeOthers excludes the sender, scopeAll includes it.
	scopeOthers broadcastScope = iota
	scopeAll
)

type relayRule struct {
	outbound string
	scope    broadcastScope
	payload  func(json.RawMessage) any
}

// relayPolicy is the full forwarding table for gameplay events. Relaying is
// deliberately permissive: no handler checks that the room exists or that
// the sender is a member, and forwarding to an unknown channel is a silent
// no-op.
var relayPolicy = map[string]relayRule{
	EventSyncRoster:     {EventRosterSynced, scopeOthers, rawField("roster")},
	EventSyncSelected:   {EventSelectedSynced, scopeOthers, rawField("selectedForGame")},
	EventStartGame:      {EventGameStarted, scopeOthers, rawField("gameRoster")},
	EventPickSecret:     {EventSecretPicked, scopeOthers, stripRoomCode},
	EventSyncEliminated: {EventEliminatedSynced, scopeOthers, stripRoomCode},
	EventEndTurn:        {EventTurnEnded, scopeOthers, noPayload},
	EventMakeGuess:      {EventGuessMade, scopeAll, stripRoomCode},
	EventGameWon:        {EventGameWon, scopeAll, stripRoomCode},
	EventResetGame:      {EventGameReset, scopeOthers, noPayload},
}

func rawField(name string) func(json.RawMessage) any {
	return func(data json.RawMessage) any {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil
		}
		raw, ok := fields[name]
		if !ok {
			return nil
		}
		return raw
	}
}

// stripRoomCode forwards the payload minus the routing field.
func stripRoomCode(data json.RawMessage) any {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	delete(fields, "roomCode")
	return fields
}

func noPayload(json.RawMessage) any {
	return nil
}
