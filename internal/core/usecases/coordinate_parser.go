package usecases

import (
	"math"
	"strconv"
	"strings"

	"github.com/samirrijal/fieldproof/internal/core/domain"
)

// ParseCoordinate reads "lat, lng" or "lat lng". Blank input returns ok=false
// with no error. Latitude range is checked before longitude.
func ParseCoordinate(text string) (p domain.GeoPoint, ok bool, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.GeoPoint{}, false, nil
	}

	var tokens []string
	if strings.Contains(text, ",") {
		tokens = strings.Split(text, ",")
		for i := range tokens {
			tokens[i] = strings.TrimSpace(tokens[i])
		}
	} else {
		tokens = strings.Split(text, " ")
		tokens = dropEmpty(tokens)
	}
	if len(tokens) != 2 {
		return domain.GeoPoint{}, false, formatError(text)
	}

	lat, err := parseNumber(tokens[0])
	if err != nil {
		return domain.GeoPoint{}, false, formatError(text)
	}
	lng, err := parseNumber(tokens[1])
	if err != nil {
		return domain.GeoPoint{}, false, formatError(text)
	}

	if lat < -90 || lat > 90 {
		return domain.GeoPoint{}, false, &domain.CoordinateError{Kind: domain.RangeError, Field: "latitude", Input: text}
	}
	if lng < -180 || lng > 180 {
		return domain.GeoPoint{}, false, &domain.CoordinateError{Kind: domain.RangeError, Field: "longitude", Input: text}
	}
	return domain.GeoPoint{Lat: lat, Lon: lng}, true, nil
}

// dropEmpty removes the empty strings produced by runs of spaces.
func dropEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseNumber(tok string) (float64, error) {
	if tok == "" || strings.ContainsAny(tok, " \t\n") {
		return 0, domain.ErrCoordinateFormat
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, domain.ErrCoordinateFormat
	}
	return v, nil
}

func formatError(input string) error {
	return &domain.CoordinateError{Kind: domain.FormatError, Input: input}
}
