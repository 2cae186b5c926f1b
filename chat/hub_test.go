package chat

import (
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "room1",
	}

	hub.register <- client

	data := []byte(`{"type":"message","message":{"id":"m1"}}`)
	hub.BroadcastToRoom("room1", data)

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
}

func TestHubRoomIsolation(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	roomClient := &Client{Send: make(chan []byte, 10), Room: "room1"}
	adminClient := &Client{Send: make(chan []byte, 10), Room: adminRoom}

	hub.register <- roomClient
	hub.register <- adminClient

	hub.BroadcastToAdmins([]byte(`{"type":"new_room"}`))

	select {
	case <-adminClient.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("admin client never got the broadcast")
	}

	select {
	case got := <-roomClient.Send:
		t.Fatalf("room client should not receive admin broadcasts, got %s", got)
	case <-time.After(50 * time.Millisecond):
	}

	hub.unregister <- roomClient
	hub.unregister <- adminClient
}

func TestHubOnlineFlags(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	if hub.AdminsOnline() || hub.RoomOnline("room1") {
		t.Fatal("fresh hub should report nobody online")
	}

	client := &Client{Send: make(chan []byte, 1), Room: "room1"}
	hub.register <- client

	deadline := time.Now().Add(time.Second)
	for !hub.RoomOnline("room1") {
		if time.Now().After(deadline) {
			t.Fatal("timeout waiting for registration")
		}
		time.Sleep(2 * time.Millisecond)
	}

	hub.unregister <- client
}
