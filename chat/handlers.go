package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"pablospizza/db"
	"pablospizza/models"
	"pablospizza/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Handlers carries the hub so REST sends can push live events.
type Handlers struct {
	hub *Hub
}

func NewHandlers(hub *Hub) *Handlers {
	return &Handlers{hub: hub}
}

// CreateRoom handles POST /api/chat/rooms
func (h *Handlers) CreateRoom(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		ClientName  string `json:"client_name"`
		ClientEmail string `json:"client_email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.ClientName == "" || body.ClientEmail == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "client_name and client_email are required")
		return
	}

	room := models.ChatRoom{
		ID:          uuid.NewString(),
		ClientName:  body.ClientName,
		ClientEmail: utils.NormalizeEmail(body.ClientEmail),
		IsActive:    true,
		CreatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.ChatRoomsCollection.InsertOne(ctx, room); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create chat room")
		return
	}

	// Let operators know a visitor is waiting.
	if data, err := json.Marshal(map[string]any{"type": "new_room", "room": room}); err == nil {
		h.hub.BroadcastToAdmins(data)
	}

	utils.RespondWithJSON(w, http.StatusOK, room)
}

// GetRooms handles GET /api/chat/rooms?active_only=true (admin)
func (h *Handlers) GetRooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if r.URL.Query().Get("active_only") != "false" {
		filter["is_active"] = true
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.ChatRoomsCollection.Find(ctx, filter,
		options.Find().SetSort(bson.M{"last_message_at": -1}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	var rooms []models.ChatRoom
	if err := cur.All(ctx, &rooms); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "decode error")
		return
	}
	if rooms == nil {
		rooms = []models.ChatRoom{}
	}

	utils.RespondWithJSON(w, http.StatusOK, rooms)
}

// GetMessages handles GET /api/chat/rooms/:roomid/messages
func (h *Handlers) GetMessages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("roomid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.ChatMessagesCollection.Find(ctx, bson.M{"room_id": roomID},
		options.Find().SetSort(bson.M{"timestamp": 1}).SetLimit(50))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	var messages []models.ChatMessage
	if err := cur.All(ctx, &messages); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "decode error")
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	utils.RespondWithJSON(w, http.StatusOK, messages)
}

// SendMessage handles POST /api/chat/rooms/:roomid/messages
func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("roomid")

	var body struct {
		Message    string `json:"message"`
		SenderName string `json:"sender_name"`
		IsAdmin    bool   `json:"is_admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.Message == "" || body.SenderName == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "message and sender_name are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	msg, err := h.persistMessage(ctx, roomID, body.Message, body.SenderName, body.IsAdmin)
	if err != nil {
		switch err {
		case errRoomNotFound:
			utils.RespondWithError(w, http.StatusNotFound, "chat room not found")
		case errRoomClosed:
			utils.RespondWithError(w, http.StatusConflict, "chat room is closed")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to send message")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, msg)
}

// CloseRoom handles PUT /api/chat/rooms/:roomid/close (admin). Closing is
// terminal: the room stops accepting messages and the visitor socket is told.
func (h *Handlers) CloseRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("roomid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	now := time.Now()
	res, err := db.ChatRoomsCollection.UpdateOne(ctx,
		bson.M{"id": roomID},
		bson.M{"$set": bson.M{"is_active": false, "closed_at": now}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "chat room not found")
		return
	}

	if data, err := json.Marshal(map[string]any{
		"type":    "room_closed",
		"message": "The chat has been closed by an operator",
	}); err == nil {
		h.hub.BroadcastToRoom(roomID, data)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "chat room closed"})
}

// RoomStatus handles GET /api/chat/rooms/:roomid/status
func (h *Handlers) RoomStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("roomid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var room models.ChatRoom
	if err := db.ChatRoomsCollection.FindOne(ctx, bson.M{"id": roomID}).Decode(&room); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "chat room not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"is_active":     room.IsActive,
		"admin_online":  h.hub.AdminsOnline(),
		"client_online": h.hub.RoomOnline(roomID),
	})
}

var (
	errRoomNotFound = mongo.ErrNoDocuments
	errRoomClosed   = errRoomClosedSentinel{}
)

type errRoomClosedSentinel struct{}

func (errRoomClosedSentinel) Error() string { return "room closed" }

// persistMessage stores a message and routes the live event: admin messages
// go to the visitor's socket, visitor messages go to the operator sockets.
func (h *Handlers) persistMessage(ctx context.Context, roomID, text, senderName string, isAdmin bool) (models.ChatMessage, error) {
	var room models.ChatRoom
	if err := db.ChatRoomsCollection.FindOne(ctx, bson.M{"id": roomID}).Decode(&room); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ChatMessage{}, errRoomNotFound
		}
		return models.ChatMessage{}, err
	}
	if !room.IsActive {
		return models.ChatMessage{}, errRoomClosed
	}

	senderID := "client"
	if isAdmin {
		senderID = "admin"
	}
	now := time.Now()
	msg := models.ChatMessage{
		ID:         uuid.NewString(),
		RoomID:     roomID,
		SenderID:   senderID,
		SenderName: senderName,
		Message:    text,
		Timestamp:  now,
		IsAdmin:    isAdmin,
	}

	if _, err := db.ChatMessagesCollection.InsertOne(ctx, msg); err != nil {
		return models.ChatMessage{}, err
	}

	if _, err := db.ChatRoomsCollection.UpdateOne(ctx,
		bson.M{"id": roomID},
		bson.M{"$set": bson.M{"last_message_at": now}}); err != nil {
		log.Printf("chat: failed to bump last_message_at for %s: %v", roomID, err)
	}

	if isAdmin {
		if data, err := json.Marshal(map[string]any{"type": "message", "message": msg}); err == nil {
			h.hub.BroadcastToRoom(roomID, data)
		}
	} else {
		if data, err := json.Marshal(map[string]any{"type": "message", "room_id": roomID, "message": msg}); err == nil {
			h.hub.BroadcastToAdmins(data)
		}
	}

	return msg, nil
}
