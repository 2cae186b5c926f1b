package bookings

import (
	"math"

	"pablospizza/models"
)

// Per-head base prices.
const (
	workshopPricePerChild = 25.0
	partyPricePerGuest    = 20.0
)

// EstimatePrice computes the quoted price for a booking: base price per
// participant with a volume discount (5% from 10 heads, 10% from 20),
// rounded to cents.
func EstimatePrice(serviceType string, participants int) float64 {
	base := partyPricePerGuest
	if serviceType == models.ServiceWorkshop {
		base = workshopPricePerChild
	}

	total := base * float64(participants)
	switch {
	case participants >= 20:
		total *= 0.9
	case participants >= 10:
		total *= 0.95
	}

	return math.Round(total*100) / 100
}
