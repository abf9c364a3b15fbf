package usecases

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/pkg/metrics"
)

// ReferencePoint is a labelled city centre used by the synthetic provider.
type ReferencePoint struct {
	Name  string
	Point domain.GeoPoint
}

// DefaultReferencePoints are the demo cities fixes are drawn around.
var DefaultReferencePoints = []ReferencePoint{
	{Name: "Mumbai", Point: domain.GeoPoint{Lat: 19.0760, Lon: 72.8777}},
	{Name: "Delhi", Point: domain.GeoPoint{Lat: 28.6139, Lon: 77.2090}},
	{Name: "Bengaluru", Point: domain.GeoPoint{Lat: 12.9716, Lon: 77.5946}},
	{Name: "Hyderabad", Point: domain.GeoPoint{Lat: 17.3850, Lon: 78.4867}},
	{Name: "Chennai", Point: domain.GeoPoint{Lat: 13.0827, Lon: 80.2707}},
	{Name: "Kolkata", Point: domain.GeoPoint{Lat: 22.5726, Lon: 88.3639}},
	{Name: "Pune", Point: domain.GeoPoint{Lat: 18.5204, Lon: 73.8567}},
	{Name: "Ahmedabad", Point: domain.GeoPoint{Lat: 23.0225, Lon: 72.5714}},
}

const (
	syntheticJitterDeg   = 0.01
	syntheticMinAccuracy = 5.0
	syntheticMaxAccuracy = 55.0
)

// SyntheticLocationProvider fabricates fixes near known cities for demos and
// tests. It never fails.
type SyntheticLocationProvider struct {
	mu     sync.Mutex
	rng    *rand.Rand
	points []ReferencePoint
	now    func() time.Time
}

// NewSyntheticLocationProvider creates a provider seeded with seed.
func NewSyntheticLocationProvider(seed uint64, points []ReferencePoint) *SyntheticLocationProvider {
	if len(points) == 0 {
		points = DefaultReferencePoints
	}
	return &SyntheticLocationProvider{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		points: points,
		now:    time.Now,
	}
}

// Available is always true.
func (p *SyntheticLocationProvider) Available() bool { return true }

// Acquire picks a reference point and perturbs it by up to ±0.01° per axis.
func (p *SyntheticLocationProvider) Acquire(ctx context.Context) (domain.Coordinate, error) {
	c, _ := p.AcquireLabeled(ctx)
	return c, nil
}

// AcquireLabeled is Acquire plus the name of the reference point used.
func (p *SyntheticLocationProvider) AcquireLabeled(_ context.Context) (domain.Coordinate, string) {
	p.mu.Lock()
	ref := p.points[p.rng.IntN(len(p.points))]
	dLat := (p.rng.Float64()*2 - 1) * syntheticJitterDeg
	dLon := (p.rng.Float64()*2 - 1) * syntheticJitterDeg
	acc := syntheticMinAccuracy + p.rng.Float64()*(syntheticMaxAccuracy-syntheticMinAccuracy)
	p.mu.Unlock()

	metrics.LocationAcquisitions.WithLabelValues("synthetic", "ok").Inc()

	return domain.Coordinate{
		Latitude:  ref.Point.Lat + dLat,
		Longitude: ref.Point.Lon + dLon,
		Accuracy:  acc,
		Timestamp: p.now().UTC(),
	}, ref.Name
}
