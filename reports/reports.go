package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"pablospizza/db"
	"pablospizza/models"
	"pablospizza/rdx"
	"pablospizza/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const dashboardCacheTTL = 60 * time.Second

// MonthlySummary aggregates completed bookings for one calendar month.
type MonthlySummary struct {
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	TotalBookings   int     `json:"total_bookings"`
	CompletedEvents int     `json:"completed_events"`
	Cancelled       int     `json:"cancelled"`
	Revenue         float64 `json:"revenue"`
	Expenses        float64 `json:"expenses"`
	Profit          float64 `json:"profit"`
	Participants    int     `json:"participants"`
}

// Summarize folds a month's bookings into a summary. Revenue counts
// completed events at their estimated price; cost and profit come from the
// figures recorded when the event was performed.
func Summarize(bookings []models.Booking, year, month int) MonthlySummary {
	s := MonthlySummary{Year: year, Month: month}
	for _, b := range bookings {
		s.TotalBookings++
		switch b.Status {
		case models.BookingCancelled:
			s.Cancelled++
		case models.BookingCompleted:
			s.CompletedEvents++
			s.Revenue += b.EstimatedPrice
			s.Participants += b.Participants
			if b.EventCost != nil {
				s.Expenses += *b.EventCost
			}
			if b.EventProfit != nil {
				s.Profit += *b.EventProfit
			}
		}
	}
	return s
}

func monthBookings(ctx context.Context, year, month int) ([]models.Booking, error) {
	start := fmt.Sprintf("%04d-%02d-01", year, month)
	nextY, nextM := year, month+1
	if nextM > 12 {
		nextY, nextM = year+1, 1
	}
	end := fmt.Sprintf("%04d-%02d-01", nextY, nextM)

	cur, err := db.BookingsCollection.Find(ctx, bson.M{
		"event_date": bson.M{"$gte": start, "$lt": end},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func yearMonthParams(r *http.Request) (int, int, error) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year")
		}
		year = n
	}
	if v := r.URL.Query().Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			return 0, 0, fmt.Errorf("invalid month")
		}
		month = n
	}
	return year, month, nil
}

// GetMonthlyReport handles GET /api/reports/monthly
func GetMonthlyReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	year, month, err := yearMonthParams(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	bookings, err := monthBookings(ctx, year, month)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, Summarize(bookings, year, month))
}

// GetAnnualReport handles GET /api/reports/annual: twelve monthly summaries
// plus year totals.
func GetAnnualReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	year := time.Now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cur, err := db.BookingsCollection.Find(ctx, bson.M{
		"event_date": bson.M{
			"$gte": fmt.Sprintf("%04d-01-01", year),
			"$lt":  fmt.Sprintf("%04d-01-01", year+1),
		},
	})
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

	byMonth := make([][]models.Booking, 13)
	for _, b := range bookings {
		if t, err := time.Parse("2006-01-02", b.EventDate); err == nil {
			m := int(t.Month())
			byMonth[m] = append(byMonth[m], b)
		}
	}

	months := make([]MonthlySummary, 0, 12)
	total := MonthlySummary{Year: year}
	for m := 1; m <= 12; m++ {
		s := Summarize(byMonth[m], year, m)
		months = append(months, s)
		total.TotalBookings += s.TotalBookings
		total.CompletedEvents += s.CompletedEvents
		total.Cancelled += s.Cancelled
		total.Revenue += s.Revenue
		total.Expenses += s.Expenses
		total.Profit += s.Profit
		total.Participants += s.Participants
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"year":   year,
		"months": months,
		"totals": total,
	})
}

// Dashboard is the admin landing snapshot.
type Dashboard struct {
	PendingBookings  int            `json:"pending_bookings"`
	UpcomingBookings int            `json:"upcoming_bookings"`
	ActiveChats      int            `json:"active_chats"`
	LowStockItems    int            `json:"low_stock_items"`
	MonthToDate      MonthlySummary `json:"month_to_date"`
	GeneratedAt      time.Time      `json:"generated_at"`
}

// GetDashboard handles GET /api/reports/dashboard. The snapshot is cached in
// Redis for 60 seconds.
func GetDashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if cached := rdx.Get("dashboard"); cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(cached))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	now := time.Now()
	today := now.Format("2006-01-02")
	weekOut := now.AddDate(0, 0, 7).Format("2006-01-02")

	var dash Dashboard
	dash.GeneratedAt = now

	if n, err := db.BookingsCollection.CountDocuments(ctx, bson.M{"status": models.BookingPending}); err == nil {
		dash.PendingBookings = int(n)
	}
	if n, err := db.BookingsCollection.CountDocuments(ctx, bson.M{
		"status":     models.BookingConfirmed,
		"event_date": bson.M{"$gte": today, "$lte": weekOut},
	}); err == nil {
		dash.UpcomingBookings = int(n)
	}
	if n, err := db.ChatRoomsCollection.CountDocuments(ctx, bson.M{"is_active": true}); err == nil {
		dash.ActiveChats = int(n)
	}
	if n, err := db.InventoryCollection.CountDocuments(ctx, bson.M{"needs_restock": true}); err == nil {
		dash.LowStockItems = int(n)
	}

	if bookings, err := monthBookings(ctx, now.Year(), int(now.Month())); err == nil {
		dash.MonthToDate = Summarize(bookings, now.Year(), int(now.Month()))
	}

	if data, err := json.Marshal(dash); err == nil {
		rdx.SetWithExpiry("dashboard", string(data), dashboardCacheTTL)
	}

	utils.RespondWithJSON(w, http.StatusOK, dash)
}

// TopClient is a repeat-business ranking row.
type TopClient struct {
	ClientName  string  `json:"client_name"`
	ClientEmail string  `json:"client_email"`
	Bookings    int     `json:"bookings"`
	Revenue     float64 `json:"revenue"`
}

// RankClients groups completed bookings by client email and orders by revenue.
func RankClients(bookings []models.Booking, limit int) []TopClient {
	byEmail := make(map[string]*TopClient)
	for _, b := range bookings {
		if b.Status != models.BookingCompleted || b.ClientEmail == "" {
			continue
		}
		tc, ok := byEmail[b.ClientEmail]
		if !ok {
			tc = &TopClient{ClientName: b.ClientName, ClientEmail: b.ClientEmail}
			byEmail[b.ClientEmail] = tc
		}
		tc.Bookings++
		tc.Revenue += b.EstimatedPrice
	}

	ranked := make([]TopClient, 0, len(byEmail))
	for _, tc := range byEmail {
		ranked = append(ranked, *tc)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].ClientEmail < ranked[j].ClientEmail
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// GetTopClients handles GET /api/reports/top-clients
func GetTopClients(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cur, err := db.BookingsCollection.Find(ctx, bson.M{"status": models.BookingCompleted})
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

	utils.RespondWithJSON(w, http.StatusOK, RankClients(bookings, limit))
}
