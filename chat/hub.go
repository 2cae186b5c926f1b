package chat

import (
	"sync"

	"github.com/gorilla/websocket"
)

// adminRoom is the hub key operator sockets register under; every visitor
// room gets its own key.
const adminRoom = "admin"

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
	Room string
}

type broadcastMsg struct {
	Room string
	Data []byte
}

type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	quit       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.Room] == nil {
				h.rooms[c.Room] = make(map[*Client]bool)
			}
			h.rooms[c.Room][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.rooms[c.Room]; conns != nil && conns[c] {
				delete(conns, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.Room] {
				select {
				case c.Send <- m.Data:
				default:
					close(c.Send)
					delete(h.rooms[m.Room], c)
				}
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for room, conns := range h.rooms {
				for c := range conns {
					close(c.Send)
					delete(conns, c)
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop shuts the hub down and closes every client send channel.
func (h *Hub) Stop() {
	close(h.quit)
}

// BroadcastToRoom pushes data to every socket registered under roomID.
func (h *Hub) BroadcastToRoom(roomID string, data []byte) {
	select {
	case h.broadcast <- broadcastMsg{Room: roomID, Data: data}:
	case <-h.quit:
	}
}

// BroadcastToAdmins pushes data to every connected operator socket.
func (h *Hub) BroadcastToAdmins(data []byte) {
	h.BroadcastToRoom(adminRoom, data)
}

// RoomOnline reports whether any socket is registered under roomID.
func (h *Hub) RoomOnline(roomID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomID]) > 0
}

// AdminsOnline reports whether any operator socket is connected.
func (h *Hub) AdminsOnline() bool {
	return h.RoomOnline(adminRoom)
}
