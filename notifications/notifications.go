package notifications

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"pablospizza/db"
	"pablospizza/models"
	"pablospizza/mq"
	"pablospizza/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StartWorker consumes notification events from the mq channel, delivers
// them through the sender and records the outcome. It returns when ctx is
// cancelled. Events without a recipient go to the admin phone.
func StartWorker(ctx context.Context, sender Sender) {
	adminPhone := os.Getenv("ADMIN_PHONE")
	events := mq.Subscribe(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			phone := event.RecipientPhone
			if phone == "" {
				phone = adminPhone
			}
			deliver(ctx, sender, phone, event)
		}
	}
}

func deliver(ctx context.Context, sender Sender, phone string, event models.NotificationEvent) {
	n := models.Notification{
		ID:             uuid.NewString(),
		RecipientPhone: phone,
		Message:        event.Message,
		Type:           event.Type,
		Status:         models.NotificationSent,
		SentAt:         time.Now(),
	}

	if phone == "" {
		n.Status = models.NotificationFailed
		log.Printf("[notifications] No recipient for %s event", event.Type)
	} else {
		sctx, cancel := context.WithTimeout(ctx, 15*time.Second)
		if err := sender.Send(sctx, phone, event.Message); err != nil {
			n.Status = models.NotificationFailed
			log.Printf("[notifications] Delivery to %s failed: %v", phone, err)
		}
		cancel()
	}

	dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.NotificationsCollection.InsertOne(dctx, n); err != nil {
		log.Printf("[notifications] Failed to record notification: %v", err)
	}
}

// GetNotifications handles GET /api/notifications: the delivery log, newest first.
func GetNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	limit := int64(50)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.NotificationsCollection.Find(ctx, filter,
		options.Find().SetSort(bson.M{"sent_at": -1}).SetLimit(limit))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	var notes []models.Notification
	if err := cur.All(ctx, &notes); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "decode error")
		return
	}
	if notes == nil {
		notes = []models.Notification{}
	}

	utils.RespondWithJSON(w, http.StatusOK, notes)
}

type sendRequest struct {
	RecipientPhone string `json:"recipient_phone"`
	Message        string `json:"message"`
}

// SendNotification handles POST /api/notifications/send, a manual operator
// message, queued through the same worker as domain events.
func SendNotification(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.RecipientPhone) == "" || strings.TrimSpace(req.Message) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "recipient_phone and message are required")
		return
	}

	mq.Emit(r.Context(), models.NotificationEvent{
		Type:           "admin_alert",
		RecipientPhone: strings.TrimSpace(req.RecipientPhone),
		Message:        req.Message,
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"queued": true})
}
