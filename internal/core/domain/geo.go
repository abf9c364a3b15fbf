package domain

import (
	"fmt"
	"time"
)

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies inside the WGS 84 ranges.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// String renders the point the way it is shown to users and copied to the clipboard.
func (p GeoPoint) String() string {
	return FormatCoordinate(p.Lat, p.Lon)
}

// FormatCoordinate renders "lat, lng" with six decimals (~0.1 m).
func FormatCoordinate(lat, lng float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lng)
}

// Coordinate is a single location fix. Accuracy is the sensor-reported error
// radius in meters and is advisory only.
type Coordinate struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// Point drops accuracy and timestamp.
func (c Coordinate) Point() GeoPoint {
	return GeoPoint{Lat: c.Latitude, Lon: c.Longitude}
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether p lies inside the box or on its boundary.
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Center returns the geometric center of the box.
func (b Bounds) Center() GeoPoint {
	return GeoPoint{Lat: (b.MinLat + b.MaxLat) / 2, Lon: (b.MinLon + b.MaxLon) / 2}
}

// MapSource records which input a MapView was derived from.
type MapSource string

const (
	MapSourceSearch  MapSource = "search"
	MapSourcePoints  MapSource = "points"
	MapSourceDefault MapSource = "default"
)

// MapView is a derived map viewport. It is recomputed on every render.
type MapView struct {
	BoundingBox Bounds    `json:"bounding_box"`
	Marker      GeoPoint  `json:"marker"`
	Source      MapSource `json:"source"`
	Points      int       `json:"points"`
}
