//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/samirrijal/fieldproof/internal/adapters/http"
	"github.com/samirrijal/fieldproof/internal/adapters/postgres"
	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/usecases"
	"github.com/samirrijal/fieldproof/internal/pkg/config"
)

// setupTestDB connects to the test database. The campaigns migration must
// already be applied.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("fieldproof-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := db.Ping(ctx); err != nil {
		t.Fatalf("ping db: %v", err)
	}
	return db
}

func setupTestDeps(t *testing.T, db *postgres.DB, loc *mockLocator) *http.Dependencies {
	repo := postgres.NewCampaignRepo(db)
	return &http.Dependencies{
		Campaigns:    usecases.NewCampaignService(repo, nil),
		Capture:      usecases.NewCaptureService(repo, loc, nil, usecases.LocationMandatory),
		Maps:         usecases.NewMapService(repo, ""),
		Location:     loc,
		LocationName: "mock",
		Storage:      db,
		StorageName:  "postgres",
	}
}

func TestCaptureRoundTrip_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()

	loc := &mockLocator{available: true, coord: domain.Coordinate{Latitude: 22.5726, Longitude: 88.3639, Accuracy: 15}}
	app := setupApp(setupTestDeps(t, db, loc))

	name := "Integration " + time.Now().Format("20060102150405")
	status, body := doJSON(t, app, "POST", "/v1/campaigns", `{
		"name":"`+name+`","client_name":"Test Client","campaign_type":"Sampling",
		"start_date":"2026-01-01","end_date":"2026-12-31","target_locations":"Kolkata"}`)
	if status != 201 {
		t.Fatalf("create: expected 201, got %d: %s", status, body)
	}
	var c domain.Campaign
	if err := json.Unmarshal(body, &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	base := "/v1/campaigns/" + strconv.FormatInt(c.ID, 10)

	status, body = doJSON(t, app, "POST", base+"/activities", `{"image":"img","submitted_by":"agent"}`)
	if status != 201 {
		t.Fatalf("capture: expected 201, got %d: %s", status, body)
	}

	loc.err = domain.NewLocationError(domain.Timeout, "slow")
	status, _ = doJSON(t, app, "POST", base+"/activities", `{"image":"img","submitted_by":"agent","mode":"best_effort"}`)
	if status != 201 {
		t.Fatalf("best effort capture: expected 201, got %d", status)
	}

	resp, err := app.Test(httptest.NewRequest("GET", base, nil), -1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var got domain.Campaign
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(got.Activities))
	}
	if got.Activities[0].Latitude == nil || *got.Activities[0].Latitude != 22.5726 {
		t.Errorf("first activity should be located: %+v", got.Activities[0])
	}
	if got.Activities[1].Latitude != nil || got.Activities[1].Location != "Kolkata" {
		t.Errorf("second activity should be unlocated: %+v", got.Activities[1])
	}

	status, body = doJSON(t, app, "GET", "/v1/map?campaign="+strconv.FormatInt(c.ID, 10), "")
	if status != 200 || !strings.Contains(string(body), `"points":1`) {
		t.Errorf("map: unexpected %d %s", status, body)
	}
}

func TestReady_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()

	app := setupApp(setupTestDeps(t, db, &mockLocator{available: true}))
	status, body := doJSON(t, app, "GET", "/v1/ready", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
}
