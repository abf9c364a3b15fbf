package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/ports"
	"github.com/samirrijal/fieldproof/internal/pkg/metrics"
	"github.com/samirrijal/fieldproof/internal/pkg/telemetry"
)

// LocationMode decides what happens when no location fix can be obtained.
type LocationMode string

const (
	// LocationMandatory aborts the capture on any location failure.
	LocationMandatory LocationMode = "mandatory"
	// LocationBestEffort stores the photo without coordinates.
	LocationBestEffort LocationMode = "best_effort"
)

// ParseLocationMode accepts "mandatory" and "best_effort" (or "best-effort").
func ParseLocationMode(s string) (LocationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(LocationMandatory):
		return LocationMandatory, nil
	case string(LocationBestEffort), "best-effort":
		return LocationBestEffort, nil
	default:
		return "", fmt.Errorf("unknown location mode %q: %w", s, domain.ErrInvalidInput)
	}
}

// UnknownLocation is used when neither a fix nor a campaign target location exists.
const UnknownLocation = "Unknown"

// CaptureRequest is one photo submission.
type CaptureRequest struct {
	CampaignID int64
	Image      string
	Actor      string
	// Coordinate is a fix already taken on the client, used instead of the provider.
	Coordinate *domain.Coordinate
	// Mode overrides the service default when set.
	Mode LocationMode
}

// CaptureService builds photo activities and appends them to campaigns.
type CaptureService struct {
	campaigns   ports.CampaignRepository
	location    ports.LocationProvider
	publisher   ports.EventPublisher
	defaultMode LocationMode
	ids         *idClock
	now         func() time.Time
}

// NewCaptureService creates a new CaptureService. publisher may be nil.
func NewCaptureService(
	campaigns ports.CampaignRepository,
	location ports.LocationProvider,
	publisher ports.EventPublisher,
	defaultMode LocationMode,
) *CaptureService {
	if defaultMode == "" {
		defaultMode = LocationMandatory
	}
	return &CaptureService{
		campaigns:   campaigns,
		location:    location,
		publisher:   publisher,
		defaultMode: defaultMode,
		ids:         newIDClock(time.Now),
		now:         time.Now,
	}
}

// WithClock replaces the clock used for IDs and activity dates.
func (s *CaptureService) WithClock(now func() time.Time) *CaptureService {
	s.now = now
	s.ids = newIDClock(now)
	return s
}

// DefaultMode returns the mode used when a request does not set one.
func (s *CaptureService) DefaultMode() LocationMode {
	return s.defaultMode
}

// Capture resolves a location, builds the activity and appends it. In
// mandatory mode a location failure is returned as *domain.LocationError and
// nothing is stored.
func (s *CaptureService) Capture(ctx context.Context, req CaptureRequest) (*domain.PhotoActivity, error) {
	ctx, span := otel.Tracer(telemetry.TracerName).Start(ctx, telemetry.SpanCapture)
	defer span.End()

	mode := req.Mode
	if mode == "" {
		mode = s.defaultMode
	}
	span.SetAttributes(
		attribute.Int64("campaign.id", req.CampaignID),
		attribute.String("capture.mode", string(mode)),
	)

	if strings.TrimSpace(req.Image) == "" {
		return nil, fmt.Errorf("image is required: %w", domain.ErrInvalidInput)
	}

	campaign, err := s.campaigns.GetByID(ctx, req.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("get campaign %d: %w", req.CampaignID, err)
	}

	coord, err := s.resolveLocation(ctx, req)
	if err != nil {
		var le *domain.LocationError
		if !errors.As(err, &le) || mode == LocationMandatory {
			metrics.Captures.WithLabelValues(string(mode), "aborted").Inc()
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		slog.WarnContext(ctx, "storing photo without location",
			"campaign_id", campaign.ID, "kind", le.Kind.String(), "error", le.Error())
		coord = nil
	}

	activity := BuildActivity(campaign, req.Image, coord, req.Actor, s.ids.Next(), s.now())

	if err := s.campaigns.AppendActivity(ctx, campaign.ID, activity); err != nil {
		metrics.Captures.WithLabelValues(string(mode), "error").Inc()
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("append activity: %w", err)
	}

	outcome := "located"
	if coord == nil {
		outcome = "unlocated"
	}
	metrics.Captures.WithLabelValues(string(mode), outcome).Inc()

	if s.publisher != nil {
		event := &domain.ActivityEvent{
			CampaignID:   campaign.ID,
			CampaignName: campaign.Name,
			Activity:     activity,
			Time:         s.now().UTC(),
		}
		if err := s.publisher.PublishActivityCaptured(ctx, event); err != nil {
			slog.WarnContext(ctx, "publish activity failed", "campaign_id", campaign.ID, "error", err)
		}
	}

	return &activity, nil
}

func (s *CaptureService) resolveLocation(ctx context.Context, req CaptureRequest) (*domain.Coordinate, error) {
	if req.Coordinate != nil {
		if !req.Coordinate.Point().Valid() {
			return nil, fmt.Errorf("coordinate out of range: %w", domain.ErrInvalidInput)
		}
		c := *req.Coordinate
		if c.Timestamp.IsZero() {
			c.Timestamp = s.now().UTC()
		}
		return &c, nil
	}
	if s.location == nil {
		return nil, domain.NewLocationError(domain.CapabilityUnavailable, "no location provider configured")
	}
	c, err := s.location.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// BuildActivity combines a photo with its fix (or nil) into a PhotoActivity.
func BuildActivity(campaign *domain.Campaign, image string, coord *domain.Coordinate, actor string, id int64, now time.Time) domain.PhotoActivity {
	location := fallbackLocation(campaign.TargetLocations)
	if coord != nil {
		location = domain.FormatCoordinate(coord.Latitude, coord.Longitude)
	}
	return domain.NewPhotoActivity(domain.PhotoActivityParams{
		ID:          id,
		CampaignID:  campaign.ID,
		Title:       "Photo for " + campaign.Name,
		Date:        now.Format(domain.DateLayout),
		Location:    location,
		PhotoURL:    image,
		SubmittedBy: actor,
		Status:      domain.StatusPending,
	}, coord)
}

// fallbackLocation is the first comma-separated target location.
func fallbackLocation(targets string) string {
	first, _, _ := strings.Cut(targets, ",")
	if first = strings.TrimSpace(first); first != "" {
		return first
	}
	return UnknownLocation
}
