package availability

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"pablospizza/models"
)

// Business day and buffer constants. A booked event occupies roughly half a
// day once setup, travel and cleanup are counted, so every hour within
// windowHours of an existing booking is blocked.
const (
	OpeningHour = 9
	ClosingHour = 20
	windowHours = 6
)

// BookingSource enumerates every booking in the system. No date filter is
// pushed down; the checker scans and matches the day itself.
type BookingSource interface {
	ListAll(ctx context.Context) ([]models.Booking, error)
}

type Conflict struct {
	Time   string `json:"time"`
	Reason string `json:"reason"`
}

type Result struct {
	Conflicts      []Conflict `json:"conflicts"`
	AvailableSlots []string   `json:"availableSlots"`
	CanSchedule    bool       `json:"canSchedule"`
}

type Checker struct {
	source BookingSource
}

func NewChecker(source BookingSource) *Checker {
	return &Checker{source: source}
}

// Check reports which hourly slots on date remain open and, when a specific
// time is requested, whether that time collides with an existing booking.
// Cancelled bookings never count. The call is a pure read: any source failure
// propagates and no partial result is returned.
func (c *Checker) Check(ctx context.Context, date, requestedTime string) (Result, error) {
	if _, err := parseDate(date); err != nil {
		return Result{}, err
	}

	requestedHour := -1
	if requestedTime != "" {
		h, ok := hourOf(requestedTime)
		if !ok {
			return Result{}, fmt.Errorf("invalid time %q: want HH:MM", requestedTime)
		}
		requestedHour = h
	}

	all, err := c.source.ListAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list bookings: %w", err)
	}

	var sameDay []models.Booking
	for _, b := range all {
		if b.EventDate == date && b.Status != models.BookingCancelled {
			sameDay = append(sameDay, b)
		}
	}

	blocked := make(map[int]bool)
	for _, b := range sameDay {
		h, ok := hourOf(b.EventTime)
		if !ok {
			// Same-day match without a time-of-day contributes no exclusion.
			continue
		}
		for slot := OpeningHour; slot <= ClosingHour; slot++ {
			if abs(slot-h) <= windowHours {
				blocked[slot] = true
			}
		}
	}

	result := Result{Conflicts: []Conflict{}, AvailableSlots: []string{}}
	for slot := OpeningHour; slot <= ClosingHour; slot++ {
		if !blocked[slot] {
			result.AvailableSlots = append(result.AvailableSlots, formatHour(slot))
		}
	}

	if requestedHour >= 0 {
		for _, b := range sameDay {
			h, ok := hourOf(b.EventTime)
			if !ok {
				continue
			}
			// Strict bound here, inclusive bound for slot removal above; the
			// two disagree only at exactly windowHours apart.
			if abs(requestedHour-h) < windowHours {
				result.Conflicts = append(result.Conflicts, Conflict{
					Time: b.EventTime,
					Reason: fmt.Sprintf("existing %s booking at %s is within the %d-hour buffer",
						b.ServiceType, b.EventTime, windowHours),
				})
			}
		}
	}

	result.CanSchedule = len(result.Conflicts) == 0
	return result, nil
}

func parseDate(date string) (string, error) {
	parts := strings.Split(date, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
	}
	for _, p := range parts {
		if _, err := strconv.Atoi(p); err != nil {
			return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
		}
	}
	return date, nil
}

// hourOf extracts the hour from an HH:MM string. Returns false when the
// time is absent or malformed.
func hourOf(t string) (int, bool) {
	if t == "" {
		return 0, false
	}
	idx := strings.IndexByte(t, ':')
	if idx < 0 {
		return 0, false
	}
	h, err := strconv.Atoi(t[:idx])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

func formatHour(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
