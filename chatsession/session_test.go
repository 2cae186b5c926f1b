package chatsession

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"pablospizza/models"
)

type fakeRooms struct {
	history    []models.ChatMessage
	createErr  error
	historyErr error
	sendErr    error
	sent       []models.ChatMessage
}

func (f *fakeRooms) CreateRoom(ctx context.Context, name, email string) (models.ChatRoom, error) {
	if f.createErr != nil {
		return models.ChatRoom{}, f.createErr
	}
	return models.ChatRoom{ID: "room1", ClientName: name, ClientEmail: email, IsActive: true, CreatedAt: time.Now()}, nil
}

func (f *fakeRooms) GetMessages(ctx context.Context, roomID string) ([]models.ChatMessage, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *fakeRooms) SendMessage(ctx context.Context, roomID, text, senderName string, isAdmin bool) (models.ChatMessage, error) {
	if f.sendErr != nil {
		return models.ChatMessage{}, f.sendErr
	}
	msg := models.ChatMessage{
		ID:         fmt.Sprintf("m%d", len(f.sent)+1),
		RoomID:     roomID,
		SenderID:   "client",
		SenderName: senderName,
		Message:    text,
		Timestamp:  time.Now(),
		IsAdmin:    isAdmin,
	}
	f.sent = append(f.sent, msg)
	return msg, nil
}

func (f *fakeRooms) CloseRoom(ctx context.Context, roomID string) error { return nil }

type fakeTransport struct {
	events  chan Event
	stopped atomic.Bool
	subErr  error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{events: make(chan Event, 16)}
}

func (f *fakeTransport) Subscribe(ctx context.Context, roomID string) (<-chan Event, func(), error) {
	if f.subErr != nil {
		return nil, nil, f.subErr
	}
	return f.events, func() { f.stopped.Store(true) }, nil
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", what)
}

func inbound(id, text string, at time.Time) Event {
	return Event{Type: EventMessage, Message: &models.ChatMessage{
		ID:         id,
		RoomID:     "room1",
		SenderID:   "admin",
		SenderName: "Pablo",
		Message:    text,
		Timestamp:  at,
		IsAdmin:    true,
	}}
}

func TestInitializeValidation(t *testing.T) {
	s := New(&fakeRooms{}, newFakeTransport())

	if err := s.Initialize(context.Background(), "", "ana@example.com"); err == nil {
		t.Error("expected error for missing name")
	}
	if err := s.Initialize(context.Background(), "Ana", ""); err == nil {
		t.Error("expected error for missing email")
	}
	if s.Room() != nil {
		t.Error("failed initialization must leave no state behind")
	}
}

func TestInitializeFailureIsTerminal(t *testing.T) {
	s := New(&fakeRooms{createErr: errors.New("boom")}, newFakeTransport())
	if err := s.Initialize(context.Background(), "Ana", "ana@example.com"); err == nil {
		t.Fatal("expected room-creation failure to propagate")
	}
	if s.Room() != nil || s.Connected() {
		t.Error("no partial state after failed initialization")
	}

	transport := newFakeTransport()
	s = New(&fakeRooms{historyErr: errors.New("boom")}, transport)
	if err := s.Initialize(context.Background(), "Ana", "ana@example.com"); err == nil {
		t.Fatal("expected history failure to propagate")
	}
	if !transport.stopped.Load() {
		t.Error("subscription must be torn down when history load fails")
	}
	if s.Room() != nil || s.Connected() {
		t.Error("no partial state after failed initialization")
	}
}

func TestChatRoundTrip(t *testing.T) {
	rooms := &fakeRooms{}
	s := New(rooms, newFakeTransport())

	if err := s.Initialize(context.Background(), "Ana", "ana@example.com"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if !s.Connected() {
		t.Fatal("expected connected after initialize")
	}

	if err := s.SendMessage(context.Background(), "hola", "Ana"); err != nil {
		t.Fatalf("send: %v", err)
	}

	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one message, got %d", len(msgs))
	}
	if msgs[0].IsAdmin {
		t.Error("client message must have is_admin=false")
	}
	if got := s.UnreadCount(); got != 0 {
		t.Errorf("sending must reset unread, got %d", got)
	}
}

func TestUnreadAccumulationAndOpen(t *testing.T) {
	transport := newFakeTransport()
	s := New(&fakeRooms{}, transport)
	if err := s.Initialize(context.Background(), "Ana", "ana@example.com"); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	now := time.Now()
	transport.events <- inbound("a1", "hello", now)
	transport.events <- inbound("a2", "anyone there?", now.Add(time.Second))

	waitFor(t, func() bool { return s.UnreadCount() == 2 }, "unread count 2")

	s.Open()
	if got := s.UnreadCount(); got != 0 {
		t.Errorf("open must reset unread, got %d", got)
	}
	if got := len(s.Messages()); got != 2 {
		t.Errorf("open must not alter the message list, got %d messages", got)
	}
}

func TestOpenSuppressesUnread(t *testing.T) {
	transport := newFakeTransport()
	s := New(&fakeRooms{}, transport)
	if err := s.Initialize(context.Background(), "Ana", "ana@example.com"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	s.Open()

	transport.events <- inbound("a1", "hello", time.Now())
	waitFor(t, func() bool { return len(s.Messages()) == 1 }, "message delivery")

	if got := s.UnreadCount(); got != 0 {
		t.Errorf("messages arriving while open must not count as unread, got %d", got)
	}
}

func TestRoomClosedTeardown(t *testing.T) {
	transport := newFakeTransport()
	s := New(&fakeRooms{}, transport)
	if err := s.Initialize(context.Background(), "Ana", "ana@example.com"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	s.Open()
	transport.events <- inbound("a1", "hello", time.Now())
	waitFor(t, func() bool { return len(s.Messages()) == 1 }, "message delivery")

	transport.events <- Event{Type: EventRoomClosed, Text: "closed by admin"}
	waitFor(t, func() bool { return s.Room() == nil }, "teardown")

	if s.Connected() || s.IsOpen() || s.UnreadCount() != 0 || len(s.Messages()) != 0 {
		t.Error("room_closed must reset all state to uninitialized")
	}
	if !transport.stopped.Load() {
		t.Error("room_closed must stop the subscription")
	}

	select {
	case n := <-s.Notices():
		if n.Kind != "room_closed" {
			t.Errorf("expected room_closed notice, got %+v", n)
		}
	case <-time.After(time.Second):
		t.Error("expected a room_closed notice")
	}
}

func TestSendPrecondition(t *testing.T) {
	rooms := &fakeRooms{}
	s := New(rooms, newFakeTransport())

	// No room at all: silent no-op.
	if err := s.SendMessage(context.Background(), "hola", "Ana"); err != nil {
		t.Fatalf("send without room must be a silent no-op, got %v", err)
	}
	if len(rooms.sent) != 0 {
		t.Error("no network call expected without a room")
	}

	// Disconnected: silent no-op.
	transport := newFakeTransport()
	s = New(rooms, transport)
	if err := s.Initialize(context.Background(), "Ana", "ana@example.com"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	transport.events <- Event{Type: EventDisconnect}
	waitFor(t, func() bool { return !s.Connected() }, "disconnect")

	if err := s.SendMessage(context.Background(), "hola", "Ana"); err != nil {
		t.Fatalf("send while disconnected must be a silent no-op, got %v", err)
	}
	if len(rooms.sent) != 0 {
		t.Error("no network call expected while disconnected")
	}
}

func TestSendFailureKeepsLocalState(t *testing.T) {
	transport := newFakeTransport()
	rooms := &fakeRooms{history: []models.ChatMessage{{ID: "h1", Message: "hi", Timestamp: time.Now()}}}
	s := New(rooms, transport)
	if err := s.Initialize(context.Background(), "Ana", "ana@example.com"); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	rooms.sendErr = errors.New("network down")
	if err := s.SendMessage(context.Background(), "hola", "Ana"); err == nil {
		t.Fatal("expected send failure to be reported")
	}
	if got := len(s.Messages()); got != 1 {
		t.Errorf("failed send must leave the message list as-is, got %d", got)
	}
	if !s.Connected() {
		t.Error("failed send must not kill the session")
	}
}

func TestHistoryLiveDeduplication(t *testing.T) {
	now := time.Now()
	transport := newFakeTransport()
	rooms := &fakeRooms{history: []models.ChatMessage{
		{ID: "h2", Message: "second", Timestamp: now.Add(time.Second)},
		{ID: "h1", Message: "first", Timestamp: now},
	}}
	s := New(rooms, transport)
	if err := s.Initialize(context.Background(), "Ana", "ana@example.com"); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	// A live event duplicating a history entry must not double up.
	transport.events <- inbound("h2", "second", now.Add(time.Second))
	transport.events <- inbound("h3", "third", now.Add(2*time.Second))
	waitFor(t, func() bool { return len(s.Messages()) == 3 }, "merged message list")

	msgs := s.Messages()
	for i, want := range []string{"h1", "h2", "h3"} {
		if msgs[i].ID != want {
			t.Errorf("position %d: want %s, got %s (timestamp ordering)", i, want, msgs[i].ID)
		}
	}
}

func TestDisconnectIsNonFatal(t *testing.T) {
	transport := newFakeTransport()
	s := New(&fakeRooms{}, transport)
	if err := s.Initialize(context.Background(), "Ana", "ana@example.com"); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	transport.events <- Event{Type: EventDisconnect}
	waitFor(t, func() bool { return !s.Connected() }, "disconnect flag")

	if s.Room() == nil {
		t.Error("disconnect must not tear the session down")
	}

	transport.events <- Event{Type: EventConnect}
	waitFor(t, func() bool { return s.Connected() }, "reconnect flag")
}
