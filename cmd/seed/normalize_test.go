package main

import (
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/fieldproof/internal/core/domain"
)

func TestNormalize_Defaults(t *testing.T) {
	now := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	lat, lng := 19.0, 72.8
	cs := []domain.Campaign{{
		ID: 5, Name: "Seed",
		Activities: []domain.PhotoActivity{{ID: 1, Latitude: &lat, Longitude: &lng}},
	}}

	if err := normalize(cs, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := cs[0]
	if c.Status != domain.CampaignStatusActive || !c.CreatedAt.Equal(now) {
		t.Errorf("defaults not applied: %+v", c)
	}
	if c.Activities[0].CampaignID != 5 || c.Activities[0].Status != domain.StatusPending {
		t.Errorf("activity defaults not applied: %+v", c.Activities[0])
	}
}

func TestNormalize_Rejects(t *testing.T) {
	lat, bad := 19.0, 200.0
	tests := []struct {
		name string
		in   []domain.Campaign
	}{
		{"missing id", []domain.Campaign{{Name: "x"}}},
		{"duplicate id", []domain.Campaign{{ID: 1}, {ID: 1}}},
		{"half coordinate", []domain.Campaign{{ID: 1, Activities: []domain.PhotoActivity{{ID: 1, Latitude: &lat}}}}},
		{"out of range", []domain.Campaign{{ID: 1, Activities: []domain.PhotoActivity{{ID: 1, Latitude: &lat, Longitude: &bad}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := normalize(tt.in, time.Now()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNormalize_HalfCoordinateIsInvalidInput(t *testing.T) {
	lat := 1.0
	err := normalize([]domain.Campaign{{ID: 1, Activities: []domain.PhotoActivity{{ID: 2, Longitude: &lat}}}}, time.Now())
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
