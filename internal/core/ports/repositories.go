package ports

import (
	"context"

	"github.com/samirrijal/fieldproof/internal/core/domain"
)

// CampaignRepository persists campaigns and their append-only activity lists.
type CampaignRepository interface {
	List(ctx context.Context) ([]domain.Campaign, error)
	GetByID(ctx context.Context, id int64) (*domain.Campaign, error)
	Create(ctx context.Context, campaign *domain.Campaign) error
	AppendActivity(ctx context.Context, campaignID int64, activity domain.PhotoActivity) error
}

// KeyValueStore is the persistence substrate behind the key-value campaign store.
// Get returns domain.ErrNotFound for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
