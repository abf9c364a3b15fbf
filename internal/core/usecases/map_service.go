package usecases

import (
	"context"
	"fmt"

	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/ports"
	"github.com/samirrijal/fieldproof/internal/pkg/geospatial"
	"github.com/samirrijal/fieldproof/internal/pkg/metrics"
)

// MapQuery selects the coordinates to frame. CampaignID 0 means all campaigns.
type MapQuery struct {
	CampaignID int64
	Search     string
}

// MapResult is a composed view plus everything needed to render it.
type MapResult struct {
	View        domain.MapView    `json:"view"`
	EmbedURL    string            `json:"embed_url"`
	SpanMeters  float64           `json:"span_meters"`
	Coordinates []domain.GeoPoint `json:"coordinates"`
	Search      *domain.GeoPoint  `json:"search,omitempty"`
	SearchError string            `json:"search_error,omitempty"`
}

// MapService sources coordinates from the campaign store and composes views.
type MapService struct {
	campaigns ports.CampaignRepository
	embedBase string
}

// NewMapService creates a new MapService.
func NewMapService(campaigns ports.CampaignRepository, embedBase string) *MapService {
	if embedBase == "" {
		embedBase = DefaultEmbedBase
	}
	return &MapService{campaigns: campaigns, embedBase: embedBase}
}

// View composes the map for q. An unparseable search never fails the call:
// the message is returned in SearchError and the unsearched view is used.
func (s *MapService) View(ctx context.Context, q MapQuery) (*MapResult, error) {
	points, err := s.points(ctx, q.CampaignID)
	if err != nil {
		return nil, err
	}

	res := &MapResult{Coordinates: points}

	searched, ok, perr := ParseCoordinate(q.Search)
	switch {
	case perr != nil:
		res.SearchError = perr.Error()
		metrics.CoordinateSearches.WithLabelValues("rejected").Inc()
	case ok:
		res.Search = &searched
		metrics.CoordinateSearches.WithLabelValues("ok").Inc()
	}

	res.View = ComposeMapView(points, res.Search)
	res.EmbedURL = EmbedURL(s.embedBase, res.View)
	b := res.View.BoundingBox
	res.SpanMeters = geospatial.Haversine(b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)

	metrics.MapViews.WithLabelValues(string(res.View.Source)).Inc()
	return res, nil
}

func (s *MapService) points(ctx context.Context, campaignID int64) ([]domain.GeoPoint, error) {
	if campaignID != 0 {
		c, err := s.campaigns.GetByID(ctx, campaignID)
		if err != nil {
			return nil, fmt.Errorf("get campaign %d: %w", campaignID, err)
		}
		return c.Points(), nil
	}

	all, err := s.campaigns.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	var pts []domain.GeoPoint
	for i := range all {
		pts = append(pts, all[i].Points()...)
	}
	return pts, nil
}
