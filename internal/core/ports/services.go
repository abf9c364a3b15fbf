package ports

import (
	"context"
	"time"

	"github.com/samirrijal/fieldproof/internal/core/domain"
)

// LocationProvider produces a best-effort location fix for the current device.
// Failures are *domain.LocationError.
type LocationProvider interface {
	Acquire(ctx context.Context) (domain.Coordinate, error)
}

// PositionOptions mirrors the knobs of a device positioning request.
type PositionOptions struct {
	HighAccuracy bool          `json:"high_accuracy"`
	Timeout      time.Duration `json:"timeout"`
	MaximumAge   time.Duration `json:"maximum_age"`
}

// Fix is a raw reading from a positioning source.
type Fix struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// PositionSource is a device positioning sensor. Available reports whether the
// capability exists at all; CurrentPosition performs one read.
type PositionSource interface {
	Available() bool
	CurrentPosition(ctx context.Context, opts PositionOptions) (Fix, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishActivityCaptured(ctx context.Context, event *domain.ActivityEvent) error
	PublishCampaignCreated(ctx context.Context, campaign *domain.Campaign) error
}

// Clipboard reads and writes plain text on the user's system clipboard.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}
