package mq

import (
	"context"
	"encoding/json"
	"log"

	"pablospizza/models"
	"pablospizza/rdx"
)

// Channel carrying notification events from domain handlers to the worker.
const NotificationChannel = "notification-events"

// Emit publishes a notification event to Redis. Failures are logged and
// swallowed; emitting a notice never fails the domain operation.
func Emit(ctx context.Context, event models.NotificationEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, NotificationChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish event to Redis: %v", err)
	}
}

// Subscribe returns a channel of decoded notification events.
func Subscribe(ctx context.Context) <-chan models.NotificationEvent {
	sub := rdx.Conn.Subscribe(ctx, NotificationChannel)
	out := make(chan models.NotificationEvent)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var event models.NotificationEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("[mq] Failed to parse event: %v", err)
				continue
			}
			out <- event
		}
	}()

	return out
}
