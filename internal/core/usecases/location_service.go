package usecases

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/ports"
	"github.com/samirrijal/fieldproof/internal/pkg/metrics"
	"github.com/samirrijal/fieldproof/internal/pkg/telemetry"
)

// AcquireOptions holds the two positioning attempts made by LocationService.
type AcquireOptions struct {
	Precise ports.PositionOptions
	Relaxed ports.PositionOptions
}

// DefaultAcquireOptions favours accuracy first, then accepts a cached or
// coarse fix. Worst case before failure is reported is about 40s.
func DefaultAcquireOptions() AcquireOptions {
	return AcquireOptions{
		Precise: ports.PositionOptions{HighAccuracy: true, Timeout: 25 * time.Second, MaximumAge: 0},
		Relaxed: ports.PositionOptions{HighAccuracy: false, Timeout: 15 * time.Second, MaximumAge: 60 * time.Second},
	}
}

// LocationService implements ports.LocationProvider on top of a device
// positioning source, with a single relaxed-accuracy fallback.
type LocationService struct {
	source ports.PositionSource
	opts   AcquireOptions
	name   string
	now    func() time.Time
}

// NewLocationService creates a LocationService. name labels metrics.
func NewLocationService(source ports.PositionSource, name string, opts AcquireOptions) *LocationService {
	return &LocationService{source: source, opts: opts, name: name, now: time.Now}
}

// WithClock replaces the clock used to timestamp fixes.
func (s *LocationService) WithClock(now func() time.Time) *LocationService {
	s.now = now
	return s
}

// Available reports whether the positioning source can currently be asked.
func (s *LocationService) Available() bool {
	return s.source != nil && s.source.Available()
}

// Acquire returns a fix from the high-accuracy attempt, or from the relaxed
// attempt if the first one fails. If both fail the first attempt's error is
// returned with the second attached as Fallback.
func (s *LocationService) Acquire(ctx context.Context) (domain.Coordinate, error) {
	ctx, span := otel.Tracer(telemetry.TracerName).Start(ctx, telemetry.SpanLocationAcquire)
	defer span.End()
	span.SetAttributes(attribute.String("location.provider", s.name))

	start := time.Now()
	defer func() {
		metrics.LocationAcquireDuration.WithLabelValues(s.name).Observe(time.Since(start).Seconds())
	}()

	if !s.Available() {
		err := domain.NewLocationError(domain.CapabilityUnavailable, "positioning is not supported on this device")
		s.record(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Coordinate{}, err
	}

	fix, err := s.attempt(ctx, s.opts.Precise)
	if err == nil {
		return s.success(fix, "precise"), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.Coordinate{}, ctxErr
	}

	primary := classify(err)
	slog.WarnContext(ctx, "high accuracy position failed, trying relaxed accuracy",
		"provider", s.name, "kind", primary.Kind.String(), "error", primary.Message)
	metrics.LocationFallbacks.WithLabelValues(s.name).Inc()
	span.AddEvent("fallback", trace.WithAttributes(attribute.String("location.error_kind", primary.Kind.String())))

	fix, err = s.attempt(ctx, s.opts.Relaxed)
	if err == nil {
		return s.success(fix, "relaxed"), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.Coordinate{}, ctxErr
	}

	fallback := classify(err)
	final := &domain.LocationError{Kind: primary.Kind, Message: primary.Message, Fallback: fallback}
	slog.ErrorContext(ctx, "position capture failed completely",
		"provider", s.name,
		"kind", primary.Kind.String(),
		"fallback_kind", fallback.Kind.String(),
		"error", final.Error())
	s.record(final)
	span.SetStatus(codes.Error, final.Error())
	return domain.Coordinate{}, final
}

func (s *LocationService) attempt(ctx context.Context, opts ports.PositionOptions) (ports.Fix, error) {
	actx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	fix, err := s.source.CurrentPosition(actx, opts)
	if err != nil {
		return ports.Fix{}, err
	}
	if !(domain.GeoPoint{Lat: fix.Latitude, Lon: fix.Longitude}).Valid() {
		return ports.Fix{}, domain.NewLocationError(domain.PositionUnavailable,
			"source returned out-of-range fix %.6f, %.6f", fix.Latitude, fix.Longitude)
	}
	return fix, nil
}

// success stamps the fix with the service clock; the sensor's own timestamp
// is not used.
func (s *LocationService) success(fix ports.Fix, attempt string) domain.Coordinate {
	metrics.LocationAcquisitions.WithLabelValues(s.name, "ok").Inc()
	slog.Debug("position captured",
		"provider", s.name, "attempt", attempt,
		"latitude", fix.Latitude, "longitude", fix.Longitude, "accuracy_m", fix.Accuracy)
	return domain.Coordinate{
		Latitude:  fix.Latitude,
		Longitude: fix.Longitude,
		Accuracy:  fix.Accuracy,
		Timestamp: s.now().UTC(),
	}
}

func (s *LocationService) record(err *domain.LocationError) {
	metrics.LocationAcquisitions.WithLabelValues(s.name, err.Kind.String()).Inc()
}

// classify turns any source error into a LocationError.
func classify(err error) *domain.LocationError {
	var le *domain.LocationError
	if errors.As(err, &le) {
		return le
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewLocationError(domain.Timeout, "no position within the allotted time")
	}
	return &domain.LocationError{Kind: domain.LocationUnknown, Message: err.Error()}
}
