package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Sender delivers a message to a phone number through an external gateway.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// WhatsAppSender posts messages to a WhatsApp HTTP gateway. The gateway URL
// and token come from WHATSAPP_API_URL and WHATSAPP_API_TOKEN.
type WhatsAppSender struct {
	APIURL string
	Token  string
	Client *http.Client
}

func NewWhatsAppSender() *WhatsAppSender {
	return &WhatsAppSender{
		APIURL: os.Getenv("WHATSAPP_API_URL"),
		Token:  os.Getenv("WHATSAPP_API_TOKEN"),
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *WhatsAppSender) Send(ctx context.Context, phone, message string) error {
	if s.APIURL == "" {
		return fmt.Errorf("whatsapp gateway not configured")
	}

	payload, err := json.Marshal(map[string]string{
		"to":   phone,
		"body": message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.APIURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned %d", resp.StatusCode)
	}
	return nil
}
