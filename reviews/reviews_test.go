package reviews

import (
	"testing"

	"pablospizza/models"
)

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.TotalReviews != 0 || stats.AverageRating != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
	for star := 1; star <= 5; star++ {
		if stats.Distribution[star] != 0 {
			t.Fatalf("expected empty distribution, got %+v", stats.Distribution)
		}
	}
}

func TestComputeStats(t *testing.T) {
	reviews := []models.Review{
		{Rating: 5}, {Rating: 5}, {Rating: 4}, {Rating: 2},
	}
	stats := ComputeStats(reviews)
	if stats.TotalReviews != 4 {
		t.Fatalf("expected 4 reviews, got %d", stats.TotalReviews)
	}
	if stats.AverageRating != 4.0 {
		t.Fatalf("expected average 4.0, got %v", stats.AverageRating)
	}
	if stats.Distribution[5] != 2 || stats.Distribution[4] != 1 || stats.Distribution[2] != 1 {
		t.Fatalf("unexpected distribution %+v", stats.Distribution)
	}
}

func TestComputeStatsRounding(t *testing.T) {
	reviews := []models.Review{{Rating: 5}, {Rating: 4}, {Rating: 4}}
	stats := ComputeStats(reviews)
	if stats.AverageRating != 4.33 {
		t.Fatalf("expected 4.33, got %v", stats.AverageRating)
	}
}

func TestCreateValidation(t *testing.T) {
	cases := []struct {
		name string
		req  createRequest
		ok   bool
	}{
		{"valid", createRequest{ClientName: "Maria", Rating: 5}, true},
		{"missing name", createRequest{Rating: 3}, false},
		{"rating too low", createRequest{ClientName: "Maria", Rating: 0}, false},
		{"rating too high", createRequest{ClientName: "Maria", Rating: 6}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := tc.req.validate()
			if tc.ok && msg != "" {
				t.Fatalf("expected valid, got %q", msg)
			}
			if !tc.ok && msg == "" {
				t.Fatal("expected validation error")
			}
		})
	}
}
