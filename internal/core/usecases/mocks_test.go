package usecases_test

import (
	"context"
	"sync"

	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/ports"
)

// --- Mock CampaignRepository ---

type mockCampaignRepo struct {
	listFn     func(ctx context.Context) ([]domain.Campaign, error)
	getByIDFn  func(ctx context.Context, id int64) (*domain.Campaign, error)
	createFn   func(ctx context.Context, c *domain.Campaign) error
	appendFn   func(ctx context.Context, campaignID int64, a domain.PhotoActivity) error
	appendedMu sync.Mutex
	appended   []domain.PhotoActivity
}

func (m *mockCampaignRepo) List(ctx context.Context) ([]domain.Campaign, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCampaignRepo) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	return nil
}

func (m *mockCampaignRepo) AppendActivity(ctx context.Context, campaignID int64, a domain.PhotoActivity) error {
	if m.appendFn != nil {
		if err := m.appendFn(ctx, campaignID, a); err != nil {
			return err
		}
	}
	m.appendedMu.Lock()
	m.appended = append(m.appended, a)
	m.appendedMu.Unlock()
	return nil
}

// --- Mock PositionSource ---

type positionCall struct {
	opts ports.PositionOptions
}

type mockPositionSource struct {
	available bool
	responses []func(ctx context.Context) (ports.Fix, error)
	calls     []positionCall
}

func (m *mockPositionSource) Available() bool { return m.available }

func (m *mockPositionSource) CurrentPosition(ctx context.Context, opts ports.PositionOptions) (ports.Fix, error) {
	i := len(m.calls)
	m.calls = append(m.calls, positionCall{opts: opts})
	if i >= len(m.responses) {
		return ports.Fix{}, domain.NewLocationError(domain.PositionUnavailable, "no scripted response")
	}
	return m.responses[i](ctx)
}

func fixOK(lat, lng, acc float64) func(ctx context.Context) (ports.Fix, error) {
	return func(ctx context.Context) (ports.Fix, error) {
		return ports.Fix{Latitude: lat, Longitude: lng, Accuracy: acc}, nil
	}
}

func fixErr(kind domain.LocationErrorKind, msg string) func(ctx context.Context) (ports.Fix, error) {
	return func(ctx context.Context) (ports.Fix, error) {
		return ports.Fix{}, domain.NewLocationError(kind, "%s", msg)
	}
}

// --- Mock LocationProvider ---

type mockLocationProvider struct {
	acquireFn func(ctx context.Context) (domain.Coordinate, error)
	calls     int
}

func (m *mockLocationProvider) Acquire(ctx context.Context) (domain.Coordinate, error) {
	m.calls++
	if m.acquireFn != nil {
		return m.acquireFn(ctx)
	}
	return domain.Coordinate{}, domain.NewLocationError(domain.LocationUnknown, "not scripted")
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	activities []*domain.ActivityEvent
	campaigns  []*domain.Campaign
	err        error
}

func (m *mockPublisher) PublishActivityCaptured(ctx context.Context, e *domain.ActivityEvent) error {
	m.activities = append(m.activities, e)
	return m.err
}

func (m *mockPublisher) PublishCampaignCreated(ctx context.Context, c *domain.Campaign) error {
	m.campaigns = append(m.campaigns, c)
	return m.err
}

// --- Mock Clipboard ---

type mockClipboard struct {
	text     string
	readErr  error
	writeErr error
}

func (m *mockClipboard) ReadText() (string, error) { return m.text, m.readErr }

func (m *mockClipboard) WriteText(text string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.text = text
	return nil
}

