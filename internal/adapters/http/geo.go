package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/skip2/go-qrcode"

	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/usecases"
	"github.com/samirrijal/fieldproof/internal/pkg/geospatial"
)

// AcquireResponse is a fix plus the box its accuracy radius covers.
type AcquireResponse struct {
	Coordinate domain.Coordinate `json:"coordinate"`
	Formatted  string            `json:"formatted"`
	Provider   string            `json:"provider"`
	Uncertain  domain.Bounds     `json:"uncertainty_box"`
}

// AcquireLocationHandler runs one acquisition against the configured provider.
func AcquireLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Location == nil {
			return errLocation(c, domain.NewLocationError(domain.CapabilityUnavailable, "no location provider configured"))
		}
		coord, err := deps.Location.Acquire(c.UserContext())
		if err != nil {
			return errFromDomain(c, err)
		}
		minLat, minLon, maxLat, maxLon := geospatial.AccuracyBox(coord.Latitude, coord.Longitude, coord.Accuracy)
		return c.JSON(AcquireResponse{
			Coordinate: coord,
			Formatted:  domain.FormatCoordinate(coord.Latitude, coord.Longitude),
			Provider:   deps.LocationName,
			Uncertain:  domain.Bounds{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon},
		})
	}
}

// LocationStatusHandler reports the provider name and whether it can be used.
func LocationStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		available := deps.Location != nil && deps.Location.Available()
		return c.JSON(fiber.Map{
			"provider":     deps.LocationName,
			"available":    available,
			"default_mode": deps.Capture.DefaultMode(),
		})
	}
}

// ParseCoordinateHandler parses ?q= as a "lat, lng" search. Blank input is
// not an error: it returns found=false.
func ParseCoordinateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok, err := usecases.ParseCoordinate(c.Query("q"))
		if err != nil {
			return errFromDomain(c, err)
		}
		if !ok {
			return c.JSON(fiber.Map{"found": false})
		}
		return c.JSON(fiber.Map{"found": true, "point": p, "formatted": p.String()})
	}
}

// FormatCoordinateHandler renders ?lat=&lng= the way the UI copies it.
func FormatCoordinateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := queryPoint(c.Query("lat"), c.Query("lng"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(fiber.Map{"point": p, "formatted": p.String()})
	}
}

func queryPoint(latText, lngText string) (domain.GeoPoint, error) {
	lat, err1 := strconv.ParseFloat(latText, 64)
	lng, err2 := strconv.ParseFloat(lngText, 64)
	if err1 != nil || err2 != nil {
		return domain.GeoPoint{}, fmt.Errorf("lat and lng query parameters are required numbers: %w", domain.ErrInvalidInput)
	}
	p := domain.GeoPoint{Lat: lat, Lon: lng}
	if lat < -90 || lat > 90 {
		return p, domain.ErrLatitudeOutOfRange
	}
	if lng < -180 || lng > 180 {
		return p, domain.ErrLongitudeOutOfRange
	}
	return p, nil
}

func mapQuery(c *fiber.Ctx) usecases.MapQuery {
	return usecases.MapQuery{
		CampaignID: int64(c.QueryInt("campaign", 0)),
		Search:     c.Query("search"),
	}
}

// MapViewHandler composes the map viewport for all campaigns or ?campaign=<id>,
// optionally centred on ?search=.
func MapViewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := deps.Maps.View(c.UserContext(), mapQuery(c))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(res)
	}
}

// MapQRHandler renders the embed URL of the composed view as a PNG QR code,
// so a field agent can open the same map on a phone.
func MapQRHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := deps.Maps.View(c.UserContext(), mapQuery(c))
		if err != nil {
			return errFromDomain(c, err)
		}
		size := c.QueryInt("size", 256)
		if size < 64 || size > 1024 {
			size = 256
		}
		png, err := qrcode.Encode(res.EmbedURL, qrcode.Medium, size)
		if err != nil {
			return errInternal(c, "qr encode failed")
		}
		c.Set(fiber.HeaderContentType, "image/png")
		c.Set(fiber.HeaderCacheControl, "private, no-cache")
		return c.Send(png)
	}
}
