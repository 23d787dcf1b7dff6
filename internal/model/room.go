package model

import "time"

const MaxPlayers = 2

// Room is an ephemeral two-party session. Players is ordered: the first
// entry is always the host (the creator).
type Room struct {
	Code            string
	Players         []string
	Host            string
	RematchRequests map[string]struct{}

	// Opaque pass-through state, reserved for clients. Never interpreted.
	GameState any
	Ready     map[string]any

	CreatedAt  time.Time
	LastActive time.Time
}

func NewRoom(code string, host string) Room {
	now := time.Now()
	return Room{
		Code:            code,
		Players:         []string{host},
		Host:            host,
		RematchRequests: make(map[string]struct{}),
		Ready:           make(map[string]any),
		CreatedAt:       now,
		LastActive:      now,
	}
}

func (r Room) HasPlayer(connID string) bool {
	for _, p := range r.Players {
		if p == connID {
			return true
		}
	}
	return false
}

func (r Room) IsFull() bool {
	return len(r.Players) >= MaxPlayers
}
