// Package chatsession holds the client-side lifecycle of a support
// conversation: one room, one live subscription, explicit unread/open state.
// Collaborators are passed in; nothing here touches globals, so the whole
// state machine is testable with fakes.
package chatsession

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"pablospizza/models"
)

type EventType string

const (
	EventConnect    EventType = "connect"
	EventDisconnect EventType = "disconnect"
	EventMessage    EventType = "message"
	EventRoomClosed EventType = "room_closed"
)

// Event is one inbound transport event for a subscribed room.
type Event struct {
	Type    EventType
	Message *models.ChatMessage // set for EventMessage
	Text    string              // human-readable note for EventRoomClosed
}

// RoomService is the REST collaborator owning rooms and messages.
type RoomService interface {
	CreateRoom(ctx context.Context, clientName, clientEmail string) (models.ChatRoom, error)
	GetMessages(ctx context.Context, roomID string) ([]models.ChatMessage, error)
	SendMessage(ctx context.Context, roomID, text, senderName string, isAdmin bool) (models.ChatMessage, error)
	CloseRoom(ctx context.Context, roomID string) error
}

// Transport delivers live events for a room. The returned stop function
// tears down the subscription; the event channel closes after stop.
type Transport interface {
	Subscribe(ctx context.Context, roomID string) (<-chan Event, func(), error)
}

// Notice is a transient user-facing signal (toast territory). The UI layer
// drains Notices(); slow consumers drop notices rather than block the pump.
type Notice struct {
	Kind string // "message" or "room_closed"
	Text string
}

type Session struct {
	rooms     RoomService
	transport Transport
	notices   chan Notice

	mu        sync.Mutex
	room      *models.ChatRoom
	messages  []models.ChatMessage
	seen      map[string]bool
	connected bool
	isOpen    bool
	unread    int
	stop      func()
}

func New(rooms RoomService, transport Transport) *Session {
	return &Session{
		rooms:     rooms,
		transport: transport,
		notices:   make(chan Notice, 16),
		seen:      make(map[string]bool),
	}
}

// Notices exposes the transient-notification stream.
func (s *Session) Notices() <-chan Notice {
	return s.notices
}

// Initialize creates a room for the visitor, subscribes to its live events
// and loads existing history. Any failure is terminal for the attempt: no
// partial session state is retained and no retry happens here.
func (s *Session) Initialize(ctx context.Context, clientName, clientEmail string) error {
	if clientName == "" || clientEmail == "" {
		return fmt.Errorf("client name and email are required")
	}

	s.mu.Lock()
	if s.room != nil {
		s.mu.Unlock()
		return fmt.Errorf("session already initialized for room %s", s.room.ID)
	}
	s.mu.Unlock()

	room, err := s.rooms.CreateRoom(ctx, clientName, clientEmail)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}

	events, stop, err := s.transport.Subscribe(ctx, room.ID)
	if err != nil {
		return fmt.Errorf("subscribe room %s: %w", room.ID, err)
	}

	history, err := s.rooms.GetMessages(ctx, room.ID)
	if err != nil {
		stop()
		return fmt.Errorf("load history for room %s: %w", room.ID, err)
	}

	s.mu.Lock()
	s.room = &room
	s.stop = stop
	// Subscribe succeeded, so the connection is up until the transport says
	// otherwise.
	s.connected = true
	for _, m := range history {
		s.appendLocked(m)
	}
	s.mu.Unlock()

	go s.pump(events)
	return nil
}

// SendMessage posts a client message to the room. Without a room or a live
// connection it silently returns: fire-and-forget by contract, not an error.
// A delivery failure is reported but leaves local state untouched.
func (s *Session) SendMessage(ctx context.Context, text, senderName string) error {
	s.mu.Lock()
	if s.room == nil || !s.connected {
		s.mu.Unlock()
		return nil
	}
	roomID := s.room.ID
	s.mu.Unlock()

	msg, err := s.rooms.SendMessage(ctx, roomID, text, senderName, false)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	s.mu.Lock()
	s.appendLocked(msg)
	// Sending means the sender has caught up.
	s.unread = 0
	s.mu.Unlock()
	return nil
}

// Open expands the widget and clears the unread counter.
func (s *Session) Open() {
	s.mu.Lock()
	s.isOpen = true
	s.unread = 0
	s.mu.Unlock()
}

// Close hides the widget; the session stays active.
func (s *Session) Close() {
	s.mu.Lock()
	s.isOpen = false
	s.mu.Unlock()
}

// Teardown disconnects the transport and resets every field back to the
// uninitialized state. Safe to call more than once.
func (s *Session) Teardown() {
	s.mu.Lock()
	stop := s.stop
	s.resetLocked()
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
}

func (s *Session) Room() *models.ChatRoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room == nil {
		return nil
	}
	room := *s.room
	return &room
}

func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOpen
}

func (s *Session) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

func (s *Session) pump(events <-chan Event) {
	for ev := range events {
		switch ev.Type {
		case EventConnect:
			s.mu.Lock()
			s.connected = true
			s.mu.Unlock()

		case EventDisconnect:
			// Non-fatal; no automatic reconnect here.
			s.mu.Lock()
			s.connected = false
			s.mu.Unlock()

		case EventMessage:
			if ev.Message == nil {
				continue
			}
			s.mu.Lock()
			added := s.appendLocked(*ev.Message)
			notify := added && !s.isOpen
			if notify {
				s.unread++
			}
			s.mu.Unlock()
			if notify {
				s.notify(Notice{Kind: "message", Text: ev.Message.Message})
			}

		case EventRoomClosed:
			s.mu.Lock()
			stop := s.stop
			s.resetLocked()
			s.mu.Unlock()
			if stop != nil {
				stop()
			}
			text := ev.Text
			if text == "" {
				text = "The chat has been closed by an operator"
			}
			s.notify(Notice{Kind: "room_closed", Text: text})
			return
		}
	}
}

// appendLocked merges one message into the local list, de-duplicating by id
// and keeping timestamp order. This is the merge rule covering the window
// between the history fetch and the live stream. Caller holds s.mu.
func (s *Session) appendLocked(m models.ChatMessage) bool {
	if m.ID != "" && s.seen[m.ID] {
		return false
	}
	if m.ID != "" {
		s.seen[m.ID] = true
	}
	s.messages = append(s.messages, m)
	sort.SliceStable(s.messages, func(i, j int) bool {
		return s.messages[i].Timestamp.Before(s.messages[j].Timestamp)
	})
	return true
}

func (s *Session) resetLocked() {
	s.room = nil
	s.messages = nil
	s.seen = make(map[string]bool)
	s.connected = false
	s.isOpen = false
	s.unread = 0
	s.stop = nil
}

func (s *Session) notify(n Notice) {
	select {
	case s.notices <- n:
	default:
	}
}
