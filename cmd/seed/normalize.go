package main

import (
	"fmt"
	"time"

	"github.com/samirrijal/fieldproof/internal/core/domain"
)

// normalize fills defaults and rejects records that break the store's
// invariants before anything is written.
func normalize(campaigns []domain.Campaign, now time.Time) error {
	seen := make(map[int64]bool, len(campaigns))
	for i := range campaigns {
		c := &campaigns[i]
		if c.ID == 0 {
			return fmt.Errorf("campaign %q: id is required", c.Name)
		}
		if seen[c.ID] {
			return fmt.Errorf("campaign %d: duplicate id", c.ID)
		}
		seen[c.ID] = true

		if c.Status == "" {
			c.Status = domain.CampaignStatusActive
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now.UTC()
		}
		if c.Activities == nil {
			c.Activities = []domain.PhotoActivity{}
		}
		for j := range c.Activities {
			a := &c.Activities[j]
			a.CampaignID = c.ID
			if a.Status == "" {
				a.Status = domain.StatusPending
			}
			if err := a.Validate(); err != nil {
				return err
			}
			if p, ok := a.Point(); ok && !p.Valid() {
				return fmt.Errorf("activity %d: coordinate out of range: %w", a.ID, domain.ErrInvalidInput)
			}
		}
	}
	return nil
}
