package chatsession

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pablospizza/models"
)

// RESTClient implements RoomService against the chat HTTP API.
type RESTClient struct {
	// BaseURL like "http://localhost:8080"
	BaseURL string
	HTTP    *http.Client
}

func NewRESTClient(baseURL string) *RESTClient {
	return &RESTClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *RESTClient) CreateRoom(ctx context.Context, clientName, clientEmail string) (models.ChatRoom, error) {
	body := map[string]string{"client_name": clientName, "client_email": clientEmail}
	var room models.ChatRoom
	err := c.do(ctx, http.MethodPost, "/api/chat/rooms", body, &room)
	return room, err
}

func (c *RESTClient) GetMessages(ctx context.Context, roomID string) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := c.do(ctx, http.MethodGet, "/api/chat/rooms/"+roomID+"/messages", nil, &messages)
	return messages, err
}

func (c *RESTClient) SendMessage(ctx context.Context, roomID, text, senderName string, isAdmin bool) (models.ChatMessage, error) {
	body := map[string]any{
		"message":     text,
		"sender_name": senderName,
		"is_admin":    isAdmin,
	}
	var msg models.ChatMessage
	err := c.do(ctx, http.MethodPost, "/api/chat/rooms/"+roomID+"/messages", body, &msg)
	return msg, err
}

func (c *RESTClient) CloseRoom(ctx context.Context, roomID string) error {
	return c.do(ctx, http.MethodPut, "/api/chat/rooms/"+roomID+"/close", nil, nil)
}

func (c *RESTClient) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
