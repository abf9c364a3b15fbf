package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/ports"
	"github.com/samirrijal/fieldproof/internal/core/usecases"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func newLocationService(src ports.PositionSource) *usecases.LocationService {
	return usecases.NewLocationService(src, "test", usecases.DefaultAcquireOptions()).
		WithClock(func() time.Time { return fixedNow })
}

func TestLocationService_HighAccuracySuccess(t *testing.T) {
	src := &mockPositionSource{
		available: true,
		responses: []func(ctx context.Context) (ports.Fix, error){fixOK(19.076, 72.8777, 8)},
	}

	c, err := newLocationService(src).Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Latitude != 19.076 || c.Longitude != 72.8777 || c.Accuracy != 8 {
		t.Errorf("unexpected coordinate %+v", c)
	}
	if len(src.calls) != 1 {
		t.Fatalf("expected 1 attempt, got %d", len(src.calls))
	}
	opts := src.calls[0].opts
	if !opts.HighAccuracy || opts.Timeout != 25*time.Second || opts.MaximumAge != 0 {
		t.Errorf("unexpected first attempt options %+v", opts)
	}
}

func TestLocationService_TimestampIsCaptureInstant(t *testing.T) {
	src := &mockPositionSource{
		available: true,
		responses: []func(ctx context.Context) (ports.Fix, error){
			func(ctx context.Context) (ports.Fix, error) {
				return ports.Fix{Latitude: 1, Longitude: 2, Timestamp: time.Unix(0, 0)}, nil
			},
		},
	}

	c, err := newLocationService(src).Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Timestamp.Equal(fixedNow) {
		t.Errorf("expected service clock timestamp, got %s", c.Timestamp)
	}
}

func TestLocationService_FallbackAfterTimeout(t *testing.T) {
	src := &mockPositionSource{
		available: true,
		responses: []func(ctx context.Context) (ports.Fix, error){
			fixErr(domain.Timeout, "high accuracy timed out"),
			fixOK(28.6139, 77.209, 40),
		},
	}

	c, err := newLocationService(src).Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected fallback success, got %v", err)
	}
	if c.Latitude != 28.6139 || c.Longitude != 77.209 {
		t.Errorf("expected second attempt coordinate, got %+v", c)
	}
	if len(src.calls) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(src.calls))
	}
	opts := src.calls[1].opts
	if opts.HighAccuracy || opts.Timeout != 15*time.Second || opts.MaximumAge != 60*time.Second {
		t.Errorf("unexpected fallback options %+v", opts)
	}
}

func TestLocationService_DeadlineClassifiedAsTimeout(t *testing.T) {
	opts := usecases.AcquireOptions{
		Precise: ports.PositionOptions{HighAccuracy: true, Timeout: 10 * time.Millisecond},
		Relaxed: ports.PositionOptions{Timeout: time.Second},
	}
	src := &mockPositionSource{
		available: true,
		responses: []func(ctx context.Context) (ports.Fix, error){
			func(ctx context.Context) (ports.Fix, error) {
				<-ctx.Done()
				return ports.Fix{}, ctx.Err()
			},
			fixErr(domain.PositionUnavailable, "no satellites"),
		},
	}

	_, err := usecases.NewLocationService(src, "test", opts).Acquire(context.Background())
	if !errors.Is(err, domain.ErrLocationTimeout) {
		t.Fatalf("expected timeout as primary error, got %v", err)
	}
}

func TestLocationService_PermissionDeniedOnBothAttempts(t *testing.T) {
	src := &mockPositionSource{
		available: true,
		responses: []func(ctx context.Context) (ports.Fix, error){
			fixErr(domain.PermissionDenied, "user denied geolocation"),
			fixErr(domain.PositionUnavailable, "fallback could not resolve"),
		},
	}

	_, err := newLocationService(src).Acquire(context.Background())
	var le *domain.LocationError
	if !errors.As(err, &le) {
		t.Fatalf("expected LocationError, got %T %v", err, err)
	}
	if le.Kind != domain.PermissionDenied {
		t.Errorf("expected primary kind permission_denied, got %s", le.Kind)
	}
	if le.Message != "user denied geolocation" {
		t.Errorf("expected first attempt message, got %q", le.Message)
	}
	if le.Fallback == nil || le.Fallback.Kind != domain.PositionUnavailable {
		t.Errorf("expected fallback error attached, got %+v", le.Fallback)
	}
	if errors.Is(err, domain.ErrPositionUnavailable) {
		t.Error("primary error must not be the fallback kind")
	}
}

func TestLocationService_CapabilityUnavailable(t *testing.T) {
	src := &mockPositionSource{available: false}

	_, err := newLocationService(src).Acquire(context.Background())
	if !errors.Is(err, domain.ErrCapabilityUnavailable) {
		t.Fatalf("expected capability unavailable, got %v", err)
	}
	if len(src.calls) != 0 {
		t.Errorf("expected no attempts, got %d", len(src.calls))
	}
}

func TestLocationService_UntypedErrorIsUnknown(t *testing.T) {
	src := &mockPositionSource{
		available: true,
		responses: []func(ctx context.Context) (ports.Fix, error){
			func(ctx context.Context) (ports.Fix, error) { return ports.Fix{}, errors.New("driver exploded") },
			func(ctx context.Context) (ports.Fix, error) { return ports.Fix{}, errors.New("still broken") },
		},
	}

	_, err := newLocationService(src).Acquire(context.Background())
	if !errors.Is(err, domain.ErrLocationUnknown) {
		t.Fatalf("expected unknown kind, got %v", err)
	}
}

func TestLocationService_OutOfRangeFixFallsBack(t *testing.T) {
	src := &mockPositionSource{
		available: true,
		responses: []func(ctx context.Context) (ports.Fix, error){
			fixOK(123, 10, 5),
			fixOK(12, 10, 5),
		},
	}

	c, err := newLocationService(src).Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Latitude != 12 {
		t.Errorf("expected relaxed fix, got %+v", c)
	}
}

func TestLocationService_CallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &mockPositionSource{
		available: true,
		responses: []func(ctx context.Context) (ports.Fix, error){
			func(c context.Context) (ports.Fix, error) {
				cancel()
				return ports.Fix{}, c.Err()
			},
		},
	}

	_, err := newLocationService(src).Acquire(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(src.calls) != 1 {
		t.Errorf("expected no fallback after cancellation, got %d calls", len(src.calls))
	}
}

func TestSyntheticLocationProvider_NearReferencePoint(t *testing.T) {
	p := usecases.NewSyntheticLocationProvider(42, nil)

	for i := 0; i < 200; i++ {
		c, name := p.AcquireLabeled(context.Background())

		var ref *usecases.ReferencePoint
		for j := range usecases.DefaultReferencePoints {
			if usecases.DefaultReferencePoints[j].Name == name {
				ref = &usecases.DefaultReferencePoints[j]
			}
		}
		if ref == nil {
			t.Fatalf("unknown reference point %q", name)
		}
		if d := c.Latitude - ref.Point.Lat; d < -0.01 || d > 0.01 {
			t.Errorf("latitude jitter %f out of bounds", d)
		}
		if d := c.Longitude - ref.Point.Lon; d < -0.01 || d > 0.01 {
			t.Errorf("longitude jitter %f out of bounds", d)
		}
		if c.Accuracy < 5 || c.Accuracy > 55 {
			t.Errorf("accuracy %f out of [5,55]", c.Accuracy)
		}
	}
}

func TestSyntheticLocationProvider_NeverFails(t *testing.T) {
	var p ports.LocationProvider = usecases.NewSyntheticLocationProvider(1, nil)
	for i := 0; i < 20; i++ {
		if _, err := p.Acquire(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestSyntheticLocationProvider_Deterministic(t *testing.T) {
	a := usecases.NewSyntheticLocationProvider(7, nil)
	b := usecases.NewSyntheticLocationProvider(7, nil)
	ca, _ := a.Acquire(context.Background())
	cb, _ := b.Acquire(context.Background())
	if ca.Latitude != cb.Latitude || ca.Longitude != cb.Longitude {
		t.Errorf("same seed should give same fix: %+v vs %+v", ca, cb)
	}
}
