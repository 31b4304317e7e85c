package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"spin-raffle-backend/internal/features/raffle/models"
	"spin-raffle-backend/internal/features/raffle/repository"
)

const campaignColumns = `id, tenant_id, name, is_active, started_at, ends_at, winner_id, created_at`

type campaignRepository struct {
	db       *sql.DB
	tenantID string
}

func NewCampaignRepository(db *sql.DB, tenantID string) repository.CampaignRepository {
	return &campaignRepository{db: db, tenantID: tenantID}
}

func scanCampaign(row scanner) (*models.Campaign, error) {
	var (
		c         models.Campaign
		startedAt sql.NullTime
		endsAt    sql.NullTime
		winnerID  sql.NullString
	)
	if err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.IsActive, &startedAt, &endsAt, &winnerID, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.StartedAt = timePtr(startedAt)
	c.EndsAt = timePtr(endsAt)
	c.WinnerID = stringPtr(winnerID)
	return &c, nil
}

func (r *campaignRepository) Create(ctx context.Context, c *models.Campaign) error {
	c.ID = newID(c.ID)
	c.TenantID = r.tenantID
	c.CreatedAt = stamp(c.CreatedAt)

	query := `
		INSERT INTO campaigns (id, tenant_id, name, is_active, started_at, ends_at, winner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.TenantID, c.Name, c.IsActive,
		nullTime(c.StartedAt), nullTime(c.EndsAt), nullString(c.WinnerID), c.CreatedAt)
	if err != nil {
		return classify(err)
	}
	return nil
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE tenant_id = $1 AND id = $2`

	c, err := scanCampaign(r.db.QueryRowContext(ctx, query, r.tenantID, id))
	if err != nil {
		return nil, classify(err)
	}
	return c, nil
}

func (r *campaignRepository) GetLatest(ctx context.Context) (*models.Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	c, err := scanCampaign(r.db.QueryRowContext(ctx, query, r.tenantID))
	if err != nil {
		return nil, classify(err)
	}
	return c, nil
}

func (r *campaignRepository) GetLatestActive(ctx context.Context) (*models.Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE tenant_id = $1 AND is_active = true
		ORDER BY created_at DESC
		LIMIT 1
	`
	c, err := scanCampaign(r.db.QueryRowContext(ctx, query, r.tenantID))
	if err != nil {
		return nil, classify(err)
	}
	return c, nil
}

func (r *campaignRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE campaigns SET is_active = false WHERE tenant_id = $1 AND id = $2`
	if _, err := r.db.ExecContext(ctx, query, r.tenantID, id); err != nil {
		return classify(err)
	}
	return nil
}

func (r *campaignRepository) DeactivateAll(ctx context.Context) error {
	query := `UPDATE campaigns SET is_active = false WHERE tenant_id = $1`
	if _, err := r.db.ExecContext(ctx, query, r.tenantID); err != nil {
		return classify(err)
	}
	return nil
}

func (r *campaignRepository) DeactivateExpired(ctx context.Context, now time.Time) ([]string, error) {
	query := `
		UPDATE campaigns SET is_active = false
		WHERE tenant_id = $1 AND is_active = true AND ends_at IS NOT NULL AND ends_at < $2
		RETURNING id
	`
	rows, err := r.db.QueryContext(ctx, query, r.tenantID, now)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan campaign id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, classify(rows.Err())
}

// SetWinnerIfEmpty is a single conditional update so concurrent draws cannot both win.
func (r *campaignRepository) SetWinnerIfEmpty(ctx context.Context, id, spinID string, closeCampaign bool) (bool, error) {
	query := `
		UPDATE campaigns
		SET winner_id = $3,
			is_active = CASE WHEN $4::boolean THEN false ELSE is_active END
		WHERE tenant_id = $1 AND id = $2 AND winner_id IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, r.tenantID, id, spinID, closeCampaign)
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *campaignRepository) SetWinner(ctx context.Context, id, spinID string) error {
	query := `UPDATE campaigns SET winner_id = $3, is_active = false WHERE tenant_id = $1 AND id = $2`
	if _, err := r.db.ExecContext(ctx, query, r.tenantID, id, spinID); err != nil {
		return classify(err)
	}
	return nil
}

func (r *campaignRepository) ClearWinners(ctx context.Context) error {
	query := `UPDATE campaigns SET winner_id = NULL WHERE tenant_id = $1`
	if _, err := r.db.ExecContext(ctx, query, r.tenantID); err != nil {
		return classify(err)
	}
	return nil
}

func (r *campaignRepository) ListWithWinner(ctx context.Context, limit, offset int) ([]*models.Campaign, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM campaigns WHERE tenant_id = $1 AND winner_id IS NOT NULL`
	if err := r.db.QueryRowContext(ctx, countQuery, r.tenantID).Scan(&total); err != nil {
		return nil, 0, classify(err)
	}

	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE tenant_id = $1 AND winner_id IS NOT NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	campaigns, err := r.list(ctx, query, r.tenantID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

func (r *campaignRepository) ListAll(ctx context.Context) ([]*models.Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE tenant_id = $1
		ORDER BY started_at DESC NULLS LAST, created_at DESC
	`
	return r.list(ctx, query, r.tenantID)
}

func (r *campaignRepository) list(ctx context.Context, query string, args ...any) ([]*models.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	campaigns := make([]*models.Campaign, 0)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return campaigns, nil
}
