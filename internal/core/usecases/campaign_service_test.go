package usecases_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/usecases"
)

func validCampaignInput() usecases.CreateCampaignInput {
	return usecases.CreateCampaignInput{
		Name:            "Diwali Sampling",
		ClientName:      "Acme Foods",
		CampaignType:    "Sampling",
		StartDate:       "2026-10-01",
		EndDate:         "2026-11-15",
		TargetLocations: "Mumbai, Pune",
	}
}

func TestCampaignService_Create(t *testing.T) {
	now := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	var stored *domain.Campaign
	repo := &mockCampaignRepo{createFn: func(ctx context.Context, c *domain.Campaign) error {
		stored = c
		return nil
	}}
	pub := &mockPublisher{}
	svc := usecases.NewCampaignService(repo, pub).WithClock(func() time.Time { return now })

	c, err := svc.Create(context.Background(), validCampaignInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored != c {
		t.Error("expected created campaign to be stored")
	}
	if c.ID != now.UnixMilli() || c.Status != domain.CampaignStatusActive || !c.CreatedAt.Equal(now) {
		t.Errorf("unexpected defaults %+v", c)
	}
	if c.Activities == nil {
		t.Error("expected empty, non-nil activities")
	}
	if len(pub.campaigns) != 1 {
		t.Errorf("expected campaign event, got %d", len(pub.campaigns))
	}
}

func TestCampaignService_CreateValidation(t *testing.T) {
	svc := usecases.NewCampaignService(&mockCampaignRepo{}, nil)

	tests := map[string]func(in *usecases.CreateCampaignInput){
		"missing name":  func(in *usecases.CreateCampaignInput) { in.Name = "   " },
		"missing type":  func(in *usecases.CreateCampaignInput) { in.CampaignType = "" },
		"bad date":      func(in *usecases.CreateCampaignInput) { in.StartDate = "01/10/2026" },
		"end before":    func(in *usecases.CreateCampaignInput) { in.EndDate = "2026-09-30" },
		"missing start": func(in *usecases.CreateCampaignInput) { in.StartDate = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			in := validCampaignInput()
			mutate(&in)
			if _, err := svc.Create(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected invalid input, got %v", err)
			}
		})
	}
}

func seededCampaigns() []domain.Campaign {
	return []domain.Campaign{
		{ID: 1, Name: "Diwali Sampling", ClientName: "Acme Foods", CampaignType: "Sampling", Status: "Active", TargetLocations: "Mumbai",
			Activities: []domain.PhotoActivity{
				{ID: 10, Date: "2026-10-17", PhotoURL: "img"},
				{ID: 11, Date: "2026-10-16", PhotoURL: ""},
			}},
		{ID: 2, Name: "Mall Activation", ClientName: "Zen Telecom", CampaignType: "Activation", Status: "Completed", Description: "weekend kiosks",
			Activities: []domain.PhotoActivity{
				{ID: 12, Date: "2026-10-17", PhotoURL: "img"},
			}},
		{ID: 3, Name: "Roadshow", ClientName: "Acme Foods", CampaignType: "Roadshow", Status: "Active"},
	}
}

func TestCampaignService_ListFilters(t *testing.T) {
	repo := &mockCampaignRepo{listFn: func(ctx context.Context) ([]domain.Campaign, error) { return seededCampaigns(), nil }}
	svc := usecases.NewCampaignService(repo, nil)

	tests := []struct {
		name   string
		filter domain.CampaignFilter
		want   []int64
	}{
		{"no filter", domain.CampaignFilter{}, []int64{1, 2, 3}},
		{"sentinels", domain.CampaignFilter{CampaignType: usecases.AllTypes, Status: usecases.AllStatus, Client: usecases.AllClients}, []int64{1, 2, 3}},
		{"search case insensitive", domain.CampaignFilter{Search: "MALL"}, []int64{2}},
		{"search description", domain.CampaignFilter{Search: "kiosk"}, []int64{2}},
		{"search target", domain.CampaignFilter{Search: "mumbai"}, []int64{1}},
		{"client", domain.CampaignFilter{Client: "Acme Foods"}, []int64{1, 3}},
		{"client and status", domain.CampaignFilter{Client: "Acme Foods", Status: "Active", CampaignType: "Roadshow"}, []int64{3}},
		{"no match", domain.CampaignFilter{Status: "Paused"}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			ids := []int64{}
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("got %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestCampaignService_FilterOptions(t *testing.T) {
	repo := &mockCampaignRepo{listFn: func(ctx context.Context) ([]domain.Campaign, error) { return seededCampaigns(), nil }}
	opts, err := usecases.NewCampaignService(repo, nil).FilterOptions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(opts.Clients, []string{"Acme Foods", "Zen Telecom"}) {
		t.Errorf("clients = %v", opts.Clients)
	}
	if !reflect.DeepEqual(opts.CampaignTypes, []string{"Activation", "Roadshow", "Sampling"}) {
		t.Errorf("types = %v", opts.CampaignTypes)
	}
	if !reflect.DeepEqual(opts.Statuses, []string{"Active", "Completed"}) {
		t.Errorf("statuses = %v", opts.Statuses)
	}
}

func TestCampaignService_Stats(t *testing.T) {
	repo := &mockCampaignRepo{listFn: func(ctx context.Context) ([]domain.Campaign, error) { return seededCampaigns(), nil }}
	now := time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)
	st, err := usecases.NewCampaignService(repo, nil).WithClock(func() time.Time { return now }).Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.DashboardStats{ActiveCampaigns: 3, TotalActivities: 3, PhotosUploaded: 2, TodayActivities: 2}
	if *st != want {
		t.Errorf("got %+v, want %+v", *st, want)
	}
}

func TestCampaignService_RepoErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	repo := &mockCampaignRepo{listFn: func(ctx context.Context) ([]domain.Campaign, error) { return nil, boom }}
	if _, err := usecases.NewCampaignService(repo, nil).List(context.Background(), domain.CampaignFilter{}); !errors.Is(err, boom) {
		t.Errorf("expected repo error, got %v", err)
	}
}
