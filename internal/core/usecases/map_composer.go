package usecases

import (
	"math"
	"net/url"
	"strconv"

	"github.com/samirrijal/fieldproof/internal/core/domain"
)

const (
	// searchPaddingDeg frames a single searched point.
	searchPaddingDeg = 0.01
	// minSpanDeg keeps the box from collapsing when all points coincide.
	minSpanDeg = 0.05
	// paddingFactor trades "see all points" against marker separation.
	paddingFactor = 0.3
)

// DefaultViewport is the whole-country placeholder shown before any photo
// has a location.
var DefaultViewport = domain.Bounds{MinLat: 6.0, MinLon: 68.0, MaxLat: 36.0, MaxLon: 98.0}

// DefaultEmbedBase is the OpenStreetMap export embed endpoint.
const DefaultEmbedBase = "https://www.openstreetmap.org/export/embed.html"

// ComposeMapView derives a viewport. A searched point overrides points
// entirely; no points yields DefaultViewport. The embed provider supports one
// marker, so many points are represented by their centroid.
func ComposeMapView(points []domain.GeoPoint, searched *domain.GeoPoint) domain.MapView {
	if searched != nil {
		return domain.MapView{
			BoundingBox: domain.Bounds{
				MinLat: searched.Lat - searchPaddingDeg,
				MinLon: searched.Lon - searchPaddingDeg,
				MaxLat: searched.Lat + searchPaddingDeg,
				MaxLon: searched.Lon + searchPaddingDeg,
			},
			Marker: *searched,
			Source: domain.MapSourceSearch,
			Points: len(points),
		}
	}

	if len(points) == 0 {
		return domain.MapView{
			BoundingBox: DefaultViewport,
			Marker:      DefaultViewport.Center(),
			Source:      domain.MapSourceDefault,
		}
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLon, maxLon := points[0].Lon, points[0].Lon
	var sumLat, sumLon float64
	for _, p := range points {
		minLat = math.Min(minLat, p.Lat)
		maxLat = math.Max(maxLat, p.Lat)
		minLon = math.Min(minLon, p.Lon)
		maxLon = math.Max(maxLon, p.Lon)
		sumLat += p.Lat
		sumLon += p.Lon
	}
	n := float64(len(points))

	pad := math.Max(math.Max(maxLat-minLat, maxLon-minLon), minSpanDeg) * paddingFactor

	return domain.MapView{
		BoundingBox: domain.Bounds{
			MinLat: minLat - pad,
			MinLon: minLon - pad,
			MaxLat: maxLat + pad,
			MaxLon: maxLon + pad,
		},
		Marker: domain.GeoPoint{Lat: sumLat / n, Lon: sumLon / n},
		Source: domain.MapSourcePoints,
		Points: len(points),
	}
}

// EmbedURL encodes a view into the OpenStreetMap embed query scheme:
// bbox=minLng,minLat,maxLng,maxLat and marker=lat,lng with escaped commas.
func EmbedURL(base string, v domain.MapView) string {
	if base == "" {
		base = DefaultEmbedBase
	}
	b := v.BoundingBox
	bbox := coord(b.MinLon) + "," + coord(b.MinLat) + "," + coord(b.MaxLon) + "," + coord(b.MaxLat)
	marker := coord(v.Marker.Lat) + "," + coord(v.Marker.Lon)
	return base + "?bbox=" + url.QueryEscape(bbox) + "&layer=mapnik&marker=" + url.QueryEscape(marker)
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
