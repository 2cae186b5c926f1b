package events

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
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

type createRequest struct {
	BookingID          string                 `json:"booking_id"`
	ActualParticipants int                    `json:"actual_participants"`
	StartTime          time.Time              `json:"start_time"`
	EndTime            time.Time              `json:"end_time"`
	Notes              string                 `json:"notes"`
	Photos             []string               `json:"photos"`
	Financials         models.EventFinancials `json:"financials"`
}

// CreateEvent handles POST /api/events. It records a performed event and flips
// the source booking to completed, storing cost and profit on it.
func CreateEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.BookingID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "booking_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"id": req.BookingID}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "booking not found")
		} else {
			utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		}
		return
	}
	if booking.Status == models.BookingCancelled {
		utils.RespondWithError(w, http.StatusConflict, "cancelled bookings cannot be completed")
		return
	}

	// Recompute the derived totals; the caller provides the raw expenses.
	var totalExpenses float64
	for _, e := range req.Financials.Expenses {
		totalExpenses += e.Amount
	}
	req.Financials.TotalExpenses = totalExpenses
	req.Financials.Profit = req.Financials.Income - totalExpenses
	if req.Photos == nil {
		req.Photos = []string{}
	}

	event := models.Event{
		ID:                 uuid.NewString(),
		BookingID:          req.BookingID,
		ActualParticipants: req.ActualParticipants,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		Notes:              req.Notes,
		Photos:             req.Photos,
		Financials:         req.Financials,
		CreatedAt:          time.Now(),
	}

	if _, err := db.EventsCollection.InsertOne(ctx, event); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	// Cost and profit land on the booking together once it completes.
	_, err := db.BookingsCollection.UpdateOne(ctx,
		bson.M{"id": req.BookingID},
		bson.M{"$set": bson.M{
			"status":       models.BookingCompleted,
			"event_cost":   totalExpenses,
			"event_profit": req.Financials.Profit,
			"updated_at":   time.Now(),
		}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to complete booking")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, event)
}

// GetEvents handles GET /api/events
func GetEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit := int64(100)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.EventsCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"start_time": -1}).SetLimit(limit))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "decode error")
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	utils.RespondWithJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /api/events/:id
func GetEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var event models.Event
	if err := db.EventsCollection.FindOne(ctx, bson.M{"id": ps.ByName("id")}).Decode(&event); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "event not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, event)
}

// UpdateFinancials handles PUT /api/events/:id/financials
func UpdateFinancials(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var fin models.EventFinancials
	if err := json.NewDecoder(r.Body).Decode(&fin); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var totalExpenses float64
	for _, e := range fin.Expenses {
		totalExpenses += e.Amount
	}
	fin.TotalExpenses = totalExpenses
	fin.Profit = fin.Income - totalExpenses

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.EventsCollection.UpdateOne(ctx,
		bson.M{"id": ps.ByName("id")},
		bson.M{"$set": bson.M{"financials": fin}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "update failed")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "event not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, fin)
}
