package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// frame a visitor socket sends us.
type clientFrame struct {
	Message    string `json:"message"`
	SenderName string `json:"sender_name"`
}

// frame an operator socket sends us.
type adminFrame struct {
	RoomID     string `json:"room_id"`
	Message    string `json:"message"`
	SenderName string `json:"sender_name"`
}

// WebSocketHandler upgrades a visitor connection scoped to one room.
func (h *Handlers) WebSocketHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("roomid")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("chat ws upgrade:", err)
		return
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: roomID,
	}

	h.hub.register <- client
	go writePump(client)
	go h.clientReadPump(client)
}

// AdminWebSocketHandler upgrades an operator connection that spans all rooms.
func (h *Handlers) AdminWebSocketHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("chat admin ws upgrade:", err)
		return
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: adminRoom,
	}

	h.hub.register <- client
	go writePump(client)
	go h.adminReadPump(client)
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func (h *Handlers) clientReadPump(c *Client) {
	defer func() {
		h.hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var in clientFrame
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Println("chat ws: invalid payload:", err)
			continue
		}
		if in.Message == "" || in.SenderName == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if _, err := h.persistMessage(ctx, c.Room, in.Message, in.SenderName, false); err != nil {
			log.Println("chat ws: persist:", err)
		}
		cancel()
	}
}

func (h *Handlers) adminReadPump(c *Client) {
	defer func() {
		h.hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var in adminFrame
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Println("chat admin ws: invalid payload:", err)
			continue
		}
		if in.RoomID == "" || in.Message == "" || in.SenderName == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if _, err := h.persistMessage(ctx, in.RoomID, in.Message, in.SenderName, true); err != nil {
			log.Println("chat admin ws: persist:", err)
		}
		cancel()
	}
}
