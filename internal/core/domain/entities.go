package domain

import (
	"fmt"
	"time"
)

// Role identifies which side of a campaign a user acts for.
type Role string

const (
	RoleClient Role = "client"
	RoleVendor Role = "vendor"
)

// Activity statuses.
const (
	StatusPending  = "Pending"
	StatusVerified = "Verified"
	StatusRejected = "Rejected"
)

// CampaignStatusActive is the status a new campaign starts with.
const CampaignStatusActive = "Active"

// DateLayout is the calendar-date format used for campaign and activity dates.
const DateLayout = "2006-01-02"

// Campaign is a BTL campaign and the owner of its photo activities.
type Campaign struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	ClientName      string          `json:"client_name"`
	CampaignType    string          `json:"campaign_type"`
	Description     string          `json:"description,omitempty"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	TargetLocations string          `json:"target_locations,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	Activities      []PhotoActivity `json:"activities"`
}

// Points returns the coordinates of every located activity, in capture order.
func (c *Campaign) Points() []GeoPoint {
	var pts []GeoPoint
	for _, a := range c.Activities {
		if p, ok := a.Point(); ok {
			pts = append(pts, p)
		}
	}
	return pts
}

// PhotoActivity is a single proof-of-execution photo. It is created once at
// capture time and never mutated afterwards.
type PhotoActivity struct {
	ID          int64      `json:"id"`
	CampaignID  int64      `json:"campaign_id"`
	Title       string     `json:"title"`
	Date        string     `json:"date"`
	Location    string     `json:"location"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	Accuracy    *float64   `json:"accuracy"`
	CapturedAt  *time.Time `json:"captured_at,omitempty"`
	PhotoURL    string     `json:"photo_url"`
	SubmittedBy string     `json:"submitted_by"`
	Status      string     `json:"status"`
}

// PhotoActivityParams carries everything except the coordinate.
type PhotoActivityParams struct {
	ID          int64
	CampaignID  int64
	Title       string
	Date        string
	Location    string
	PhotoURL    string
	SubmittedBy string
	Status      string
}

// NewPhotoActivity builds an activity. The coordinate is taken as a whole or
// not at all, so latitude and longitude are either both set or both nil.
func NewPhotoActivity(p PhotoActivityParams, coord *Coordinate) PhotoActivity {
	a := PhotoActivity{
		ID:          p.ID,
		CampaignID:  p.CampaignID,
		Title:       p.Title,
		Date:        p.Date,
		Location:    p.Location,
		PhotoURL:    p.PhotoURL,
		SubmittedBy: p.SubmittedBy,
		Status:      p.Status,
	}
	if coord != nil {
		lat, lng, acc, ts := coord.Latitude, coord.Longitude, coord.Accuracy, coord.Timestamp
		a.Latitude, a.Longitude, a.Accuracy, a.CapturedAt = &lat, &lng, &acc, &ts
	}
	return a
}

// Point returns the activity coordinate if it has one.
func (a PhotoActivity) Point() (GeoPoint, bool) {
	if a.Latitude == nil || a.Longitude == nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Lat: *a.Latitude, Lon: *a.Longitude}, true
}

// Validate checks the atomic-coordinate invariant on records read back from storage.
func (a PhotoActivity) Validate() error {
	if (a.Latitude == nil) != (a.Longitude == nil) {
		return fmt.Errorf("activity %d: latitude and longitude must be set together: %w", a.ID, ErrInvalidInput)
	}
	return nil
}

// CampaignFilter narrows a campaign listing. Empty fields and the "All ..."
// sentinels mean no filter.
type CampaignFilter struct {
	Search       string `json:"search,omitempty"`
	CampaignType string `json:"campaign_type,omitempty"`
	Status       string `json:"status,omitempty"`
	Client       string `json:"client,omitempty"`
}

// FilterOptions lists the distinct values present across campaigns.
type FilterOptions struct {
	CampaignTypes []string `json:"campaign_types"`
	Statuses      []string `json:"statuses"`
	Clients       []string `json:"clients"`
}

// DashboardStats summarises campaign activity.
type DashboardStats struct {
	ActiveCampaigns int `json:"active_campaigns"`
	TotalActivities int `json:"total_activities"`
	PhotosUploaded  int `json:"photos_uploaded"`
	TodayActivities int `json:"today_activities"`
}

// ActivityEvent is published whenever a photo activity is appended.
type ActivityEvent struct {
	CampaignID   int64         `json:"campaign_id"`
	CampaignName string        `json:"campaign_name"`
	Activity     PhotoActivity `json:"activity"`
	Time         time.Time     `json:"time"`
}
