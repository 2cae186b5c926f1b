package reviews

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pablospizza/db"
	"pablospizza/models"
	"pablospizza/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type createRequest struct {
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	EventID     string `json:"event_id"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
}

func (r createRequest) validate() string {
	if strings.TrimSpace(r.ClientName) == "" {
		return "client_name is required"
	}
	if r.Rating < 1 || r.Rating > 5 {
		return "rating must be between 1 and 5"
	}
	return ""
}

// CreateReview handles POST /api/reviews. Public endpoint; reviews start
// unapproved and are hidden until an operator approves them.
func CreateReview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	review := models.Review{
		ID:          uuid.NewString(),
		ClientName:  strings.TrimSpace(req.ClientName),
		ClientEmail: utils.NormalizeEmail(req.ClientEmail),
		EventID:     req.EventID,
		Rating:      req.Rating,
		Comment:     strings.TrimSpace(req.Comment),
		IsApproved:  false,
		CreatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.ReviewsCollection.InsertOne(ctx, review); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to save review")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, review)
}

// GetReviews handles GET /api/reviews. Public callers see approved reviews
// only; admins pass approved_only=false to see the moderation queue.
func GetReviews(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if r.URL.Query().Get("approved_only") != "false" {
		filter["is_approved"] = true
	}
	if minRating := r.URL.Query().Get("min_rating"); minRating != "" {
		if n, err := strconv.Atoi(minRating); err == nil {
			filter["rating"] = bson.M{"$gte": n}
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.ReviewsCollection.Find(ctx, filter,
		options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(100))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	var reviews []models.Review
	if err := cur.All(ctx, &reviews); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "decode error")
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	utils.RespondWithJSON(w, http.StatusOK, reviews)
}

// ApproveReview handles PUT /api/reviews/:id/approve
func ApproveReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ReviewsCollection.UpdateOne(ctx,
		bson.M{"id": ps.ByName("id")},
		bson.M{"$set": bson.M{"is_approved": true}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "update failed")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "review not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"approved": true})
}

// DeleteReview handles DELETE /api/reviews/:id
func DeleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ReviewsCollection.DeleteOne(ctx, bson.M{"id": ps.ByName("id")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "review not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"deleted": true})
}

// GetStats handles GET /api/reviews/stats: average rating and per-star
// counts over approved reviews.
func GetStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.ReviewsCollection.Find(ctx, bson.M{"is_approved": true})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	var reviews []models.Review
	if err := cur.All(ctx, &reviews); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "decode error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, ComputeStats(reviews))
}

// Stats summarizes approved reviews.
type Stats struct {
	TotalReviews  int         `json:"total_reviews"`
	AverageRating float64     `json:"average_rating"`
	Distribution  map[int]int `json:"rating_distribution"`
}

// ComputeStats aggregates counts and the rounded average rating.
func ComputeStats(reviews []models.Review) Stats {
	stats := Stats{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	if len(reviews) == 0 {
		return stats
	}
	sum := 0
	for _, rv := range reviews {
		stats.Distribution[rv.Rating]++
		sum += rv.Rating
	}
	stats.TotalReviews = len(reviews)
	stats.AverageRating = roundTo2(float64(sum) / float64(len(reviews)))
	return stats
}

func roundTo2(f float64) float64 {
	return math.Round(f*100) / 100
}
