package ws_game

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

const sendBuffer = 16

type Client struct {
	ID   string
	conn *websocket.Conn
	send chan Message
}

func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan Message, sendBuffer),
	}
}

// Hub groups connections under named channels (one per room code) and is the
// only place that touches sockets. Delivery is fire-and-forget: a full send
// buffer drops the message rather than blocking a handler.
type Hub struct {
	mu sync.RWMutex

	clients  map[string]*Client
	channels map[string]map[string]*Client

	logger *slog.Logger
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		channels: make(map[string]map[string]*Client),
		logger:   slog.Default(),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.logger.Info("client connected", "conn", client.ID)
}

// Unregister removes the client from every channel and closes its send
// channel, stopping the write pump.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}

	delete(h.clients, connID)
	for code, members := range h.channels {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.channels, code)
		}
	}
	close(client.send)

	h.logger.Info("client disconnected", "conn", connID)
}

func (h *Hub) Subscribe(code string, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}

	if _, exists := h.channels[code]; !exists {
		h.channels[code] = make(map[string]*Client)
	}
	h.channels[code][connID] = client
}

func (h *Hub) Unsubscribe(code string, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, exists := h.channels[code]
	if !exists {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.channels, code)
	}
}

// ToAll sends to every member of the channel, the sender included. Unknown
// channels are a no-op.
func (h *Hub) ToAll(code string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.channels[code] {
		h.push(client, msg)
	}
}

// ToOthers sends to every member of the channel except senderID.
func (h *Hub) ToOthers(code string, senderID string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, client := range h.channels[code] {
		if id == senderID {
			continue
		}
		h.push(client, msg)
	}
}

// ToClient sends to a single connection, in or out of any channel.
func (h *Hub) ToClient(connID string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, ok := h.clients[connID]; ok {
		h.push(client, msg)
	}
}

func (h *Hub) push(client *Client, msg Message) {
	select {
	case client.send <- msg:
	default:
		h.logger.Warn("send buffer full, dropping message",
			"conn", client.ID, "event", msg.Event)
	}
}

// StartClientWriting drains the client's send channel onto the socket. It
// returns when the channel is closed by Unregister or the write fails.
func (h *Hub) StartClientWriting(client *Client) {
	defer client.conn.Close()

	for msg := range client.send {
		if err := client.conn.WriteJSON(msg); err != nil {
			break
		}
	}
}
