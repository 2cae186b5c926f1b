package chatsession

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"pablospizza/models"

	"github.com/gorilla/websocket"
)

// wire frame pushed by the chat server.
type wsFrame struct {
	Type    string          `json:"type"`
	Message json.RawMessage `json:"message"`
}

// WSTransport subscribes to room events over the server's websocket
// endpoint. One dial per room and no automatic reconnect: a dropped socket
// surfaces as a disconnect event and the subscription ends.
type WSTransport struct {
	// BaseURL like "ws://localhost:8080"
	BaseURL string
	Dialer  *websocket.Dialer
}

func NewWSTransport(baseURL string) *WSTransport {
	return &WSTransport{BaseURL: baseURL, Dialer: websocket.DefaultDialer}
}

func (t *WSTransport) Subscribe(ctx context.Context, roomID string) (<-chan Event, func(), error) {
	url := fmt.Sprintf("%s/api/chat/ws/%s", t.BaseURL, roomID)
	conn, _, err := t.Dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", url, err)
	}

	events := make(chan Event, 16)
	var once sync.Once
	stop := func() {
		once.Do(func() {
			conn.Close()
		})
	}

	go func() {
		defer close(events)
		events <- Event{Type: EventConnect}
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				events <- Event{Type: EventDisconnect}
				stop()
				return
			}

			var frame wsFrame
			if err := json.Unmarshal(raw, &frame); err != nil {
				log.Println("chat transport: invalid frame:", err)
				continue
			}

			switch frame.Type {
			case "message":
				var msg models.ChatMessage
				if err := json.Unmarshal(frame.Message, &msg); err != nil {
					log.Println("chat transport: invalid message payload:", err)
					continue
				}
				events <- Event{Type: EventMessage, Message: &msg}
			case "room_closed":
				var text string
				if len(frame.Message) > 0 {
					// The close frame carries a plain string note.
					_ = json.Unmarshal(frame.Message, &text)
				}
				events <- Event{Type: EventRoomClosed, Text: text}
				stop()
				return
			}
		}
	}()

	return events, stop, nil
}
