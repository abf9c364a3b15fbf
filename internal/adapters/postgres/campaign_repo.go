package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/samirrijal/fieldproof/internal/core/domain"
)

const foreignKeyViolation = "23503"

// CampaignRepo implements ports.CampaignRepository.
type CampaignRepo struct {
	db *DB
}

func NewCampaignRepo(db *DB) *CampaignRepo { return &CampaignRepo{db: db} }

const campaignColumns = `id, name, client_name, campaign_type, description,
	to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
	target_locations, status, created_at`

const activityColumns = `id, campaign_id, title, to_char(activity_date, 'YYYY-MM-DD'), location,
	latitude, longitude, accuracy, captured_at, photo_url, submitted_by, status`

func scanCampaign(row pgx.Row) (domain.Campaign, error) {
	var c domain.Campaign
	err := row.Scan(&c.ID, &c.Name, &c.ClientName, &c.CampaignType, &c.Description,
		&c.StartDate, &c.EndDate, &c.TargetLocations, &c.Status, &c.CreatedAt)
	c.Activities = []domain.PhotoActivity{}
	return c, err
}

func scanActivity(row pgx.Row) (domain.PhotoActivity, error) {
	var a domain.PhotoActivity
	err := row.Scan(&a.ID, &a.CampaignID, &a.Title, &a.Date, &a.Location,
		&a.Latitude, &a.Longitude, &a.Accuracy, &a.CapturedAt,
		&a.PhotoURL, &a.SubmittedBy, &a.Status)
	return a, err
}

func (r *CampaignRepo) List(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+campaignColumns+` FROM campaigns ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	index := make(map[int64]int)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		index[c.ID] = len(campaigns)
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	arows, err := r.db.Pool.Query(ctx, `SELECT `+activityColumns+` FROM photo_activities ORDER BY campaign_id, id`)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer arows.Close()

	for arows.Next() {
		a, err := scanActivity(arows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[a.CampaignID]; ok {
			campaigns[i].Activities = append(campaigns[i].Activities, a)
		}
	}
	return campaigns, arows.Err()
}

func (r *CampaignRepo) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	c, err := scanCampaign(r.db.Pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("campaign %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, `SELECT `+activityColumns+` FROM photo_activities WHERE campaign_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		c.Activities = append(c.Activities, a)
	}
	return &c, rows.Err()
}

const insertCampaign = `
	INSERT INTO campaigns (id, name, client_name, campaign_type, description,
		start_date, end_date, target_locations, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6::date, $7::date, $8, $9, $10)`

const insertActivity = `
	INSERT INTO photo_activities (id, campaign_id, title, activity_date, location,
		latitude, longitude, accuracy, captured_at, photo_url, submitted_by, status)
	VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10, $11, $12)`

func campaignArgs(c *domain.Campaign) []any {
	created := c.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return []any{c.ID, c.Name, c.ClientName, c.CampaignType, c.Description,
		c.StartDate, c.EndDate, c.TargetLocations, c.Status, created}
}

func activityArgs(campaignID int64, a domain.PhotoActivity) []any {
	return []any{a.ID, campaignID, a.Title, a.Date, a.Location,
		a.Latitude, a.Longitude, a.Accuracy, a.CapturedAt,
		a.PhotoURL, a.SubmittedBy, a.Status}
}

func (r *CampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	_, err := r.db.Pool.Exec(ctx, insertCampaign, campaignArgs(c)...)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

// AppendActivity inserts a; a missing campaign is reported as domain.ErrNotFound.
func (r *CampaignRepo) AppendActivity(ctx context.Context, campaignID int64, a domain.PhotoActivity) error {
	if err := a.Validate(); err != nil {
		return err
	}
	_, err := r.db.Pool.Exec(ctx, insertActivity, activityArgs(campaignID, a)...)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("campaign %d: %w", campaignID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Replace loads a full campaign list in one batch, replacing existing rows.
func (r *CampaignRepo) Replace(ctx context.Context, campaigns []domain.Campaign) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM campaigns`)
	queued := 1
	for i := range campaigns {
		c := &campaigns[i]
		batch.Queue(insertCampaign, campaignArgs(c)...)
		queued++
		for _, a := range c.Activities {
			batch.Queue(insertActivity, activityArgs(c.ID, a)...)
			queued++
		}
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < queued; i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("batch close: %w", err)
	}
	return tx.Commit(ctx)
}
