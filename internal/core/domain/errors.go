package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// LocationErrorKind classifies why a location fix could not be obtained.
type LocationErrorKind int

const (
	LocationUnknown LocationErrorKind = iota
	CapabilityUnavailable
	PermissionDenied
	PositionUnavailable
	Timeout
)

func (k LocationErrorKind) String() string {
	switch k {
	case CapabilityUnavailable:
		return "capability_unavailable"
	case PermissionDenied:
		return "permission_denied"
	case PositionUnavailable:
		return "position_unavailable"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ParseLocationErrorKind is the inverse of String. Unrecognised names map to
// LocationUnknown.
func ParseLocationErrorKind(s string) LocationErrorKind {
	for _, k := range []LocationErrorKind{CapabilityUnavailable, PermissionDenied, PositionUnavailable, Timeout} {
		if k.String() == s {
			return k
		}
	}
	return LocationUnknown
}

func (k LocationErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *LocationErrorKind) UnmarshalText(b []byte) error {
	*k = ParseLocationErrorKind(string(b))
	return nil
}

// UserMessage is the remediation shown to the person capturing a photo.
// Each kind gets its own message because the fix differs.
func (k LocationErrorKind) UserMessage() string {
	switch k {
	case CapabilityUnavailable:
		return "Location services are not available. Enable location services in your device settings and browser permissions."
	case PermissionDenied:
		return "Location permission is required. Allow location access for this site in your browser, then capture the photo again."
	case PositionUnavailable:
		return "Your location could not be determined. Turn on GPS, move outdoors or somewhere with a clear view of the sky, and try again."
	case Timeout:
		return "Getting your location took too long. Move to an area with a better GPS signal, wait a few seconds and try again."
	default:
		return "Could not get your location. Enable location services and try again."
	}
}

// LocationError is a failed acquisition. When the relaxed-accuracy fallback
// also failed, its error is kept in Fallback; Kind and Message always describe
// the first attempt.
type LocationError struct {
	Kind     LocationErrorKind
	Message  string
	Fallback *LocationError
}

func (e *LocationError) Error() string {
	msg := e.Kind.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Fallback != nil {
		msg += " (fallback: " + e.Fallback.Error() + ")"
	}
	return "location " + msg
}

// Is matches on kind, so errors.Is(err, ErrLocationTimeout) works on any timeout.
func (e *LocationError) Is(target error) bool {
	t, ok := target.(*LocationError)
	return ok && t.Kind == e.Kind
}

var (
	ErrCapabilityUnavailable = &LocationError{Kind: CapabilityUnavailable}
	ErrPermissionDenied      = &LocationError{Kind: PermissionDenied}
	ErrPositionUnavailable   = &LocationError{Kind: PositionUnavailable}
	ErrLocationTimeout       = &LocationError{Kind: Timeout}
	ErrLocationUnknown       = &LocationError{Kind: LocationUnknown}
)

// NewLocationError builds a LocationError of the given kind.
func NewLocationError(kind LocationErrorKind, format string, args ...any) *LocationError {
	return &LocationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// CoordinateErrorKind distinguishes malformed input from out-of-range values.
type CoordinateErrorKind int

const (
	FormatError CoordinateErrorKind = iota
	RangeError
)

// CoordinateError is a rejected coordinate search. Field is "latitude" or
// "longitude" for range errors.
type CoordinateError struct {
	Kind  CoordinateErrorKind
	Field string
	Input string
}

func (e *CoordinateError) Error() string {
	if e.Kind == RangeError {
		switch e.Field {
		case "latitude":
			return "latitude must be between -90 and 90"
		case "longitude":
			return "longitude must be between -180 and 180"
		}
		return e.Field + " out of range"
	}
	return `invalid coordinate format: use "lat, lng" or "lat lng"`
}

func (e *CoordinateError) Is(target error) bool {
	t, ok := target.(*CoordinateError)
	return ok && t.Kind == e.Kind && t.Field == e.Field
}

var (
	ErrCoordinateFormat    = &CoordinateError{Kind: FormatError}
	ErrLatitudeOutOfRange  = &CoordinateError{Kind: RangeError, Field: "latitude"}
	ErrLongitudeOutOfRange = &CoordinateError{Kind: RangeError, Field: "longitude"}
)
