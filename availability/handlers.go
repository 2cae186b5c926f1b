package availability

import (
	"context"
	"net/http"
	"time"

	"pablospizza/db"
	"pablospizza/models"
	"pablospizza/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// mongoSource backs the checker with the bookings collection. Full scan: the
// checker filters by day itself.
type mongoSource struct{}

func (mongoSource) ListAll(ctx context.Context) ([]models.Booking, error) {
	cur, err := db.BookingsCollection.Find(ctx, bson.M{})
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

var defaultChecker = NewChecker(mongoSource{})

// CheckAvailability handles GET /api/availability?date=YYYY-MM-DD[&time=HH:MM]
func CheckAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date := r.URL.Query().Get("date")
	if date == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "date is required")
		return
	}
	if _, err := parseDate(date); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	requestedTime := r.URL.Query().Get("time")
	if requestedTime != "" {
		if _, ok := hourOf(requestedTime); !ok {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid time: want HH:MM")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := defaultChecker.Check(ctx, date, requestedTime)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}
