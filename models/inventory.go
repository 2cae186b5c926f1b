package models

import "time"

type InventoryItem struct {
	ID           string    `json:"id" bson:"id"`
	Name         string    `json:"name" bson:"name"`
	Category     string    `json:"category" bson:"category"` // ingredients, utensils, equipment
	CurrentStock int       `json:"current_stock" bson:"current_stock"`
	MinStock     int       `json:"min_stock" bson:"min_stock"`
	Unit         string    `json:"unit" bson:"unit"`
	CostPerUnit  float64   `json:"cost_per_unit" bson:"cost_per_unit"`
	NeedsRestock bool      `json:"needs_restock" bson:"needs_restock"`
	LastUpdated  time.Time `json:"last_updated" bson:"last_updated"`
}
