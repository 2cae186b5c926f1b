package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
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

var validCategories = map[string]bool{
	"ingredients": true,
	"utensils":    true,
	"equipment":   true,
}

type itemRequest struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	CurrentStock int     `json:"current_stock"`
	MinStock     int     `json:"min_stock"`
	Unit         string  `json:"unit"`
	CostPerUnit  float64 `json:"cost_per_unit"`
}

func (r itemRequest) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name is required"
	}
	if !validCategories[r.Category] {
		return "category must be one of ingredients, utensils, equipment"
	}
	if r.CurrentStock < 0 || r.MinStock < 0 {
		return "stock values cannot be negative"
	}
	return ""
}

// CreateItem handles POST /api/inventory
func CreateItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	item := models.InventoryItem{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Category:     req.Category,
		CurrentStock: req.CurrentStock,
		MinStock:     req.MinStock,
		Unit:         req.Unit,
		CostPerUnit:  req.CostPerUnit,
		NeedsRestock: req.CurrentStock <= req.MinStock,
		LastUpdated:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.InventoryCollection.InsertOne(ctx, item); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, item)
}

// GetItems handles GET /api/inventory with category and low_stock_only filters.
func GetItems(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if cat := r.URL.Query().Get("category"); cat != "" {
		filter["category"] = cat
	}
	if r.URL.Query().Get("low_stock_only") == "true" {
		filter["needs_restock"] = true
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.InventoryCollection.Find(ctx, filter,
		options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	var items []models.InventoryItem
	if err := cur.All(ctx, &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "decode error")
		return
	}
	if items == nil {
		items = []models.InventoryItem{}
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

type stockRequest struct {
	Operation string `json:"operation"` // set, add, subtract
	Quantity  int    `json:"quantity"`
}

// UpdateStock handles PUT /api/inventory/:id/stock. Stock floors at zero and
// a low_stock notification fires when an item crosses its minimum.
func UpdateStock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Quantity < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "quantity cannot be negative")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var item models.InventoryItem
	if err := db.InventoryCollection.FindOne(ctx, bson.M{"id": ps.ByName("id")}).Decode(&item); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "item not found")
		} else {
			utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		}
		return
	}

	newStock, ok := ApplyStockOp(item.CurrentStock, req.Operation, req.Quantity)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "operation must be one of set, add, subtract")
		return
	}

	wasLow := item.NeedsRestock
	item.CurrentStock = newStock
	item.NeedsRestock = newStock <= item.MinStock
	item.LastUpdated = time.Now()

	_, err := db.InventoryCollection.UpdateOne(ctx,
		bson.M{"id": item.ID},
		bson.M{"$set": bson.M{
			"current_stock": item.CurrentStock,
			"needs_restock": item.NeedsRestock,
			"last_updated":  item.LastUpdated,
		}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "update failed")
		return
	}

	if item.NeedsRestock && !wasLow {
		mq.Emit(ctx, models.NotificationEvent{
			Type:    "low_stock",
			Message: fmt.Sprintf("Low stock: %s at %d %s (minimum %d)", item.Name, item.CurrentStock, item.Unit, item.MinStock),
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, item)
}

// UpdateItem handles PUT /api/inventory/:id
func UpdateItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.InventoryCollection.UpdateOne(ctx,
		bson.M{"id": ps.ByName("id")},
		bson.M{"$set": bson.M{
			"name":          strings.TrimSpace(req.Name),
			"category":      req.Category,
			"current_stock": req.CurrentStock,
			"min_stock":     req.MinStock,
			"unit":          req.Unit,
			"cost_per_unit": req.CostPerUnit,
			"needs_restock": req.CurrentStock <= req.MinStock,
			"last_updated":  time.Now(),
		}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "update failed")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "item not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"updated": true})
}

// DeleteItem handles DELETE /api/inventory/:id
func DeleteItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.InventoryCollection.DeleteOne(ctx, bson.M{"id": ps.ByName("id")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "item not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"deleted": true})
}

// ApplyStockOp resolves a stock operation, flooring the result at zero.
func ApplyStockOp(current int, op string, qty int) (int, bool) {
	switch op {
	case "set":
		return qty, true
	case "add":
		return current + qty, true
	case "subtract":
		n := current - qty
		if n < 0 {
			n = 0
		}
		return n, true
	default:
		return 0, false
	}
}
