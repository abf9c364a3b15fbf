package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/ports"
	"github.com/samirrijal/fieldproof/internal/pkg/validator"
)

// Filter values that mean "no filter", as sent by the dashboard selects.
const (
	AllTypes   = "All Types"
	AllStatus  = "All Status"
	AllClients = "All Clients"
)

// CreateCampaignInput is the campaign form.
type CreateCampaignInput struct {
	Name            string `json:"name" validate:"required"`
	ClientName      string `json:"client_name" validate:"required"`
	CampaignType    string `json:"campaign_type" validate:"required"`
	Description     string `json:"description"`
	StartDate       string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string `json:"end_date" validate:"required,datetime=2006-01-02"`
	TargetLocations string `json:"target_locations"`
	Status          string `json:"status"`
}

// CampaignService handles campaign-related business logic.
type CampaignService struct {
	campaigns ports.CampaignRepository
	publisher ports.EventPublisher
	ids       *idClock
	now       func() time.Time
}

// NewCampaignService creates a new CampaignService. publisher may be nil.
func NewCampaignService(campaigns ports.CampaignRepository, publisher ports.EventPublisher) *CampaignService {
	return &CampaignService{
		campaigns: campaigns,
		publisher: publisher,
		ids:       newIDClock(time.Now),
		now:       time.Now,
	}
}

// WithClock replaces the clock used for IDs, creation times and "today".
func (s *CampaignService) WithClock(now func() time.Time) *CampaignService {
	s.now = now
	s.ids = newIDClock(now)
	return s
}

// Create validates the form and stores a new campaign.
func (s *CampaignService) Create(ctx context.Context, in CreateCampaignInput) (*domain.Campaign, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.ClientName = strings.TrimSpace(in.ClientName)
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrInvalidInput)
	}
	// Both dates passed the datetime tag, so string order is date order.
	if in.StartDate > in.EndDate {
		return nil, fmt.Errorf("end_date must be after start_date: %w", domain.ErrInvalidInput)
	}

	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = domain.CampaignStatusActive
	}

	c := &domain.Campaign{
		ID:              s.ids.Next(),
		Name:            in.Name,
		ClientName:      in.ClientName,
		CampaignType:    in.CampaignType,
		Description:     in.Description,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		TargetLocations: in.TargetLocations,
		Status:          status,
		CreatedAt:       s.now().UTC(),
		Activities:      []domain.PhotoActivity{},
	}
	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishCampaignCreated(ctx, c); err != nil {
			slog.WarnContext(ctx, "publish campaign failed", "campaign_id", c.ID, "error", err)
		}
	}
	return c, nil
}

// GetByID returns a single campaign.
func (s *CampaignService) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	return s.campaigns.GetByID(ctx, id)
}

// List returns the campaigns matching f, in creation order.
func (s *CampaignService) List(ctx context.Context, f domain.CampaignFilter) ([]domain.Campaign, error) {
	all, err := s.campaigns.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Campaign, 0, len(all))
	for _, c := range all {
		if matches(c, f) {
			out = append(out, c)
		}
	}
	return out, nil
}

func matches(c domain.Campaign, f domain.CampaignFilter) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		hit := strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.ClientName), q) ||
			strings.Contains(strings.ToLower(c.Description), q) ||
			strings.Contains(strings.ToLower(c.TargetLocations), q)
		if !hit {
			return false
		}
	}
	if f.CampaignType != "" && f.CampaignType != AllTypes && c.CampaignType != f.CampaignType {
		return false
	}
	if f.Status != "" && f.Status != AllStatus && c.Status != f.Status {
		return false
	}
	if f.Client != "" && f.Client != AllClients && c.ClientName != f.Client {
		return false
	}
	return true
}

// FilterOptions lists the distinct types, statuses and clients in use.
func (s *CampaignService) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	all, err := s.campaigns.List(ctx)
	if err != nil {
		return nil, err
	}
	types, statuses, clients := map[string]bool{}, map[string]bool{}, map[string]bool{}
	for _, c := range all {
		types[c.CampaignType] = true
		statuses[c.Status] = true
		clients[c.ClientName] = true
	}
	return &domain.FilterOptions{
		CampaignTypes: keys(types),
		Statuses:      keys(statuses),
		Clients:       keys(clients),
	}, nil
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		if k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Stats computes the dashboard counters.
func (s *CampaignService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	all, err := s.campaigns.List(ctx)
	if err != nil {
		return nil, err
	}
	today := s.now().Format(domain.DateLayout)
	st := &domain.DashboardStats{ActiveCampaigns: len(all)}
	for _, c := range all {
		for _, a := range c.Activities {
			st.TotalActivities++
			if a.PhotoURL != "" {
				st.PhotosUploaded++
			}
			if a.Date == today {
				st.TodayActivities++
			}
		}
	}
	return st, nil
}
