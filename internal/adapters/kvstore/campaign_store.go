// Package kvstore keeps the campaign list as a single JSON document in a
// key-value store.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/ports"
)

// CampaignsKey is the key the campaign list is stored under, after the prefix.
const CampaignsKey = "campaigns"

// CampaignStore implements ports.CampaignRepository over a KeyValueStore.
// Every mutation reads the whole list, changes a copy and writes the whole
// list back; mu serialises mutations within this process.
type CampaignStore struct {
	kv  ports.KeyValueStore
	key string
	mu  sync.Mutex
}

// NewCampaignStore creates a CampaignStore under prefix+CampaignsKey.
func NewCampaignStore(kv ports.KeyValueStore, prefix string) *CampaignStore {
	return &CampaignStore{kv: kv, key: prefix + CampaignsKey}
}

func (s *CampaignStore) load(ctx context.Context) ([]domain.Campaign, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Campaign{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load campaigns: %w", err)
	}
	var list []domain.Campaign
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode campaigns: %w", err)
	}
	for i := range list {
		for _, a := range list[i].Activities {
			if err := a.Validate(); err != nil {
				return nil, fmt.Errorf("campaign %d: %w", list[i].ID, err)
			}
		}
	}
	return list, nil
}

func (s *CampaignStore) save(ctx context.Context, list []domain.Campaign) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode campaigns: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save campaigns: %w", err)
	}
	return nil
}

// List returns every campaign in creation order.
func (s *CampaignStore) List(ctx context.Context) ([]domain.Campaign, error) {
	return s.load(ctx)
}

// GetByID returns the campaign with id or domain.ErrNotFound.
func (s *CampaignStore) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("campaign %d: %w", id, domain.ErrNotFound)
}

// Create appends c to the list.
func (s *CampaignStore) Create(ctx context.Context, c *domain.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	for _, existing := range list {
		if existing.ID == c.ID {
			return fmt.Errorf("campaign %d already exists: %w", c.ID, domain.ErrInvalidInput)
		}
	}
	if c.Activities == nil {
		c.Activities = []domain.PhotoActivity{}
	}
	return s.save(ctx, append(list, *c))
}

// AppendActivity adds a to the campaign's activity list. Activities are never
// merged or de-duplicated.
func (s *CampaignStore) AppendActivity(ctx context.Context, campaignID int64, a domain.PhotoActivity) error {
	if err := a.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID != campaignID {
			continue
		}
		acts := make([]domain.PhotoActivity, len(list[i].Activities), len(list[i].Activities)+1)
		copy(acts, list[i].Activities)
		list[i].Activities = append(acts, a)
		return s.save(ctx, list)
	}
	return fmt.Errorf("campaign %d: %w", campaignID, domain.ErrNotFound)
}

// Replace overwrites the stored list, used by seeding.
func (s *CampaignStore) Replace(ctx context.Context, list []domain.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, list)
}
