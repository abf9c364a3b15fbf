package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/usecases"
	"github.com/samirrijal/fieldproof/internal/pkg/validator"
)

// campaignID parses the :id route parameter.
func campaignID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// StatsHandler returns the dashboard counters.
func StatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := deps.Campaigns.Stats(c.UserContext())
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(stats)
	}
}

// ListCampaignsHandler returns campaigns matching the search/type/status/client filters.
func ListCampaignsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := domain.CampaignFilter{
			Search:       c.Query("search"),
			CampaignType: c.Query("type"),
			Status:       c.Query("status"),
			Client:       c.Query("client"),
		}
		campaigns, err := deps.Campaigns.List(c.UserContext(), f)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(paginate(c, campaigns))
	}
}

// CampaignFiltersHandler returns the distinct filter values present in the store.
func CampaignFiltersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts, err := deps.Campaigns.FilterOptions(c.UserContext())
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(opts)
	}
}

// CreateCampaignHandler stores a new campaign from the JSON form.
func CreateCampaignHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in usecases.CreateCampaignInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		campaign, err := deps.Campaigns.Create(c.UserContext(), in)
		if err != nil {
			return errFromDomain(c, err)
		}
		c.Location("/v1/campaigns/" + strconv.FormatInt(campaign.ID, 10))
		return c.Status(fiber.StatusCreated).JSON(campaign)
	}
}

// GetCampaignHandler returns one campaign with its activities.
func GetCampaignHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := campaignID(c)
		if !ok {
			return errBadRequest(c, "campaign id must be a positive integer")
		}
		campaign, err := deps.Campaigns.GetByID(c.UserContext(), id)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(campaign)
	}
}

// ListActivitiesHandler returns a campaign's photo activities in capture order.
func ListActivitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := campaignID(c)
		if !ok {
			return errBadRequest(c, "campaign id must be a positive integer")
		}
		campaign, err := deps.Campaigns.GetByID(c.UserContext(), id)
		if err != nil {
			return errFromDomain(c, err)
		}
		activities := campaign.Activities
		if activities == nil {
			activities = []domain.PhotoActivity{}
		}
		return c.JSON(paginate(c, activities))
	}
}

// CaptureBody is the JSON form of a photo submission. Latitude and longitude
// are a fix already taken on the device; when omitted the server-side
// location provider is used.
type CaptureBody struct {
	Image       string   `json:"image" validate:"required"`
	SubmittedBy string   `json:"submitted_by" validate:"required"`
	Mode        string   `json:"mode" validate:"omitempty,oneof=mandatory best_effort best-effort"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,lat"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,lng"`
	Accuracy    *float64 `json:"accuracy" validate:"omitempty,accuracy"`
}

// CaptureRequest converts the body into a usecase request.
func (b CaptureBody) CaptureRequest(campaignID int64) (usecases.CaptureRequest, error) {
	req := usecases.CaptureRequest{
		CampaignID: campaignID,
		Image:      b.Image,
		Actor:      strings.TrimSpace(b.SubmittedBy),
	}
	if (b.Latitude == nil) != (b.Longitude == nil) {
		return req, fmt.Errorf("latitude and longitude must be sent together: %w", domain.ErrInvalidInput)
	}
	if b.Mode != "" {
		mode, err := usecases.ParseLocationMode(b.Mode)
		if err != nil {
			return req, err
		}
		req.Mode = mode
	}
	if b.Latitude != nil && b.Longitude != nil {
		coord := &domain.Coordinate{Latitude: *b.Latitude, Longitude: *b.Longitude}
		if b.Accuracy != nil {
			coord.Accuracy = *b.Accuracy
		}
		req.Coordinate = coord
	}
	return req, nil
}

// CaptureHandler appends a photo activity to a campaign. Location failures in
// mandatory mode come back as 422 with the failure kind as the error code.
func CaptureHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := campaignID(c)
		if !ok {
			return errBadRequest(c, "campaign id must be a positive integer")
		}

		var body CaptureBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if err := validator.Struct(body); err != nil {
			return errBadRequest(c, err.Error())
		}
		req, err := body.CaptureRequest(id)
		if err != nil {
			return errFromDomain(c, err)
		}

		activity, err := deps.Capture.Capture(c.UserContext(), req)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(activity)
	}
}
