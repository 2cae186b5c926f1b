package bookings

import (
	"testing"

	"pablospizza/models"
)

func TestEstimatePrice(t *testing.T) {
	tests := []struct {
		name         string
		service      string
		participants int
		want         float64
	}{
		{"workshop base", models.ServiceWorkshop, 5, 125.0},
		{"party base", models.ServicePizzaParty, 5, 100.0},
		{"workshop 5% discount at 10", models.ServiceWorkshop, 10, 237.5},
		{"party 5% discount at 10", models.ServicePizzaParty, 15, 285.0},
		{"workshop 10% discount at 20", models.ServiceWorkshop, 20, 450.0},
		{"party 10% discount at 25", models.ServicePizzaParty, 25, 450.0},
		{"just below discount", models.ServicePizzaParty, 9, 180.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimatePrice(tt.service, tt.participants)
			if got != tt.want {
				t.Errorf("EstimatePrice(%s, %d) = %v, want %v", tt.service, tt.participants, got, tt.want)
			}
		})
	}
}

func TestEstimatePriceRounding(t *testing.T) {
	// 25 * 11 * 0.95 = 261.25, exact at cents
	if got := EstimatePrice(models.ServiceWorkshop, 11); got != 261.25 {
		t.Errorf("expected 261.25, got %v", got)
	}
}
