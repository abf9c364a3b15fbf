package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/fieldproof/internal/core/ports"
	"github.com/samirrijal/fieldproof/internal/core/usecases"
)

// Locator is a location provider that can report whether it is usable.
type Locator interface {
	ports.LocationProvider
	Available() bool
}

// Pinger is a backing store that can be health-checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Campaigns *usecases.CampaignService
	Capture   *usecases.CaptureService
	Maps      *usecases.MapService

	Location     Locator
	LocationName string

	NATS        *nats.Conn
	Storage     Pinger
	StorageName string
}
