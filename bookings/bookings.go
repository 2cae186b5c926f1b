package bookings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pablospizza/db"
	"pablospizza/models"
	"pablospizza/mq"
	"pablospizza/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type createRequest struct {
	ClientName      string `json:"client_name"`
	ClientEmail     string `json:"client_email"`
	ClientPhone     string `json:"client_phone"`
	ServiceType     string `json:"service_type"`
	EventType       string `json:"event_type"`
	EventDate       string `json:"event_date"`
	EventTime       string `json:"event_time"`
	DurationHours   int    `json:"duration_hours"`
	Participants    int    `json:"participants"`
	Location        string `json:"location"`
	SpecialRequests string `json:"special_requests"`
}

func (req *createRequest) validate() error {
	if req.ClientName == "" || req.ClientEmail == "" || req.ClientPhone == "" {
		return fmt.Errorf("client name, email and phone are required")
	}
	if !models.ValidServiceType(req.ServiceType) {
		return fmt.Errorf("invalid service_type %q", req.ServiceType)
	}
	if !models.ValidEventType(req.EventType) {
		return fmt.Errorf("invalid event_type %q", req.EventType)
	}
	if _, err := time.Parse("2006-01-02", req.EventDate); err != nil {
		return fmt.Errorf("invalid event_date %q: want YYYY-MM-DD", req.EventDate)
	}
	if req.EventTime != "" {
		if _, err := time.Parse("15:04", req.EventTime); err != nil {
			return fmt.Errorf("invalid event_time %q: want HH:MM", req.EventTime)
		}
	}
	if req.Participants <= 0 {
		return fmt.Errorf("participants must be positive")
	}
	return nil
}

// CreateBooking handles POST /api/bookings
func CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := req.validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.DurationHours <= 0 {
		req.DurationHours = 4
	}

	booking := models.Booking{
		ID:              uuid.NewString(),
		ClientName:      req.ClientName,
		ClientEmail:     utils.NormalizeEmail(req.ClientEmail),
		ClientPhone:     req.ClientPhone,
		ServiceType:     req.ServiceType,
		EventType:       req.EventType,
		EventDate:       req.EventDate,
		EventTime:       req.EventTime,
		DurationHours:   req.DurationHours,
		Participants:    req.Participants,
		Location:        req.Location,
		SpecialRequests: req.SpecialRequests,
		Status:          models.BookingPending,
		EstimatedPrice:  EstimatePrice(req.ServiceType, req.Participants),
		CreatedAt:       time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.BookingsCollection.InsertOne(ctx, booking); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create booking")
		return
	}

	mq.Emit(ctx, models.NotificationEvent{
		Type:           "booking_received",
		RecipientPhone: booking.ClientPhone,
		Message: fmt.Sprintf("Hi %s! Your booking request for %s at %s has been received. We will contact you soon to confirm the details.",
			booking.ClientName, booking.EventDate, booking.EventTime),
	})

	utils.RespondWithJSON(w, http.StatusOK, booking)
}

// GetBookings handles GET /api/bookings?status=
func GetBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.ValidBookingStatus(status) {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		filter["status"] = status
	}

	limit := int64(100)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.BookingsCollection.Find(ctx, filter,
		options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "decode error")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	utils.RespondWithJSON(w, http.StatusOK, bookings)
}

// GetBooking handles GET /api/bookings/:id
func GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := db.BookingsCollection.FindOne(ctx, bson.M{"id": ps.ByName("id")}).Decode(&booking)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "booking not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, booking)
}

type updateRequest struct {
	ClientName      *string  `json:"client_name"`
	ClientEmail     *string  `json:"client_email"`
	ClientPhone     *string  `json:"client_phone"`
	EventDate       *string  `json:"event_date"`
	EventTime       *string  `json:"event_time"`
	Participants    *int     `json:"participants"`
	Location        *string  `json:"location"`
	SpecialRequests *string  `json:"special_requests"`
	Status          *string  `json:"status"`
	EventCost       *float64 `json:"event_cost"`
	EventProfit     *float64 `json:"event_profit"`
}

// UpdateBooking handles PUT /api/bookings/:id. A transition to confirmed
// triggers the confirmation notification. Cancelled bookings are frozen.
func UpdateBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var current models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"id": id}).Decode(&current); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "booking not found")
		} else {
			utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		}
		return
	}
	if current.Status == models.BookingCancelled {
		utils.RespondWithError(w, http.StatusConflict, "cancelled bookings cannot be modified")
		return
	}

	update := bson.M{"updated_at": time.Now()}
	if req.ClientName != nil {
		update["client_name"] = *req.ClientName
	}
	if req.ClientEmail != nil {
		update["client_email"] = utils.NormalizeEmail(*req.ClientEmail)
	}
	if req.ClientPhone != nil {
		update["client_phone"] = *req.ClientPhone
	}
	if req.EventDate != nil {
		if _, err := time.Parse("2006-01-02", *req.EventDate); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid event_date")
			return
		}
		update["event_date"] = *req.EventDate
	}
	if req.EventTime != nil {
		if *req.EventTime != "" {
			if _, err := time.Parse("15:04", *req.EventTime); err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "invalid event_time")
				return
			}
		}
		update["event_time"] = *req.EventTime
	}
	if req.Participants != nil {
		if *req.Participants <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "participants must be positive")
			return
		}
		update["participants"] = *req.Participants
		update["estimated_price"] = EstimatePrice(current.ServiceType, *req.Participants)
	}
	if req.Location != nil {
		update["location"] = *req.Location
	}
	if req.SpecialRequests != nil {
		update["special_requests"] = *req.SpecialRequests
	}
	if req.Status != nil {
		if !models.ValidBookingStatus(*req.Status) {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid status")
			return
		}
		update["status"] = *req.Status
	}
	// Cost and profit travel together once a booking completes.
	if (req.EventCost == nil) != (req.EventProfit == nil) {
		utils.RespondWithError(w, http.StatusBadRequest, "event_cost and event_profit must be provided together")
		return
	}
	if req.EventCost != nil {
		update["event_cost"] = *req.EventCost
		update["event_profit"] = *req.EventProfit
	}

	if _, err := db.BookingsCollection.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": update}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "update failed")
		return
	}

	var updated models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"id": id}).Decode(&updated); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	if req.Status != nil && *req.Status == models.BookingConfirmed && current.Status != models.BookingConfirmed {
		mq.Emit(ctx, models.NotificationEvent{
			Type:           "booking_confirmed",
			RecipientPhone: updated.ClientPhone,
			Message: fmt.Sprintf("Your event on %s at %s is confirmed. See you soon for a great time with Pablo's Pizza!",
				updated.EventDate, updated.EventTime),
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// CancelBooking handles DELETE /api/bookings/:id. The record is marked
// cancelled and retained, not deleted.
func CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.BookingsCollection.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"status": models.BookingCancelled, "updated_at": time.Now()}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "booking not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "booking cancelled"})
}

// GetCalendar handles GET /api/calendar/:year/:month with confirmed and
// completed bookings of one month as calendar entries.
func GetCalendar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	year, err1 := strconv.Atoi(ps.ByName("year"))
	month, err2 := strconv.Atoi(ps.ByName("month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid year/month")
		return
	}

	start := fmt.Sprintf("%04d-%02d-01", year, month)
	var end string
	if month == 12 {
		end = fmt.Sprintf("%04d-01-01", year+1)
	} else {
		end = fmt.Sprintf("%04d-%02d-01", year, month+1)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.BookingsCollection.Find(ctx, bson.M{
		"event_date": bson.M{"$gte": start, "$lt": end},
		"status":     bson.M{"$in": []string{models.BookingConfirmed, models.BookingCompleted}},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	entries := []utils.M{}
	for cur.Next(ctx) {
		var b models.Booking
		if err := cur.Decode(&b); err != nil {
			continue
		}
		entries = append(entries, utils.M{
			"id":           b.ID,
			"title":        fmt.Sprintf("%s - %s", b.ServiceType, b.ClientName),
			"date":         b.EventDate,
			"time":         b.EventTime,
			"participants": b.Participants,
			"location":     b.Location,
			"status":       b.Status,
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, entries)
}
