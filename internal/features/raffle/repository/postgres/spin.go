package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"spin-raffle-backend/internal/features/raffle/models"
	"spin-raffle-backend/internal/features/raffle/repository"
)

const (
	spinColumns = `id, tenant_id, player_id, campaign_id, prize_id, is_winner, ip_address, user_agent, device_fingerprint, spun_at`

	spinDetailsSelect = `
		SELECT s.id, s.tenant_id, s.player_id, s.campaign_id, s.prize_id, s.is_winner,
			s.ip_address, s.user_agent, s.device_fingerprint, s.spun_at,
			p.name, p.phone,
			pr.name, pr.description, pr.color, pr.icon
		FROM spins s
		LEFT JOIN players p ON p.id = s.player_id
		LEFT JOIN prizes pr ON pr.id = s.prize_id
	`
)

type spinRepository struct {
	db       *sql.DB
	tenantID string
}

func NewSpinRepository(db *sql.DB, tenantID string) repository.SpinRepository {
	return &spinRepository{db: db, tenantID: tenantID}
}

func scanSpin(row scanner) (*models.Spin, error) {
	var (
		s           models.Spin
		prizeID     sql.NullString
		fingerprint sql.NullString
	)
	err := row.Scan(&s.ID, &s.TenantID, &s.PlayerID, &s.CampaignID, &prizeID, &s.IsWinner,
		&s.IPAddress, &s.UserAgent, &fingerprint, &s.SpunAt)
	if err != nil {
		return nil, err
	}
	s.PrizeID = stringPtr(prizeID)
	s.DeviceFingerprint = stringPtr(fingerprint)
	return &s, nil
}

func scanSpinDetails(row scanner) (*models.SpinDetails, error) {
	var (
		d                                    models.SpinDetails
		prizeID, fingerprint                 sql.NullString
		playerName, playerPhone              sql.NullString
		prizeName, prizeDesc, prizeColor, ic sql.NullString
	)
	err := row.Scan(&d.ID, &d.TenantID, &d.PlayerID, &d.CampaignID, &prizeID, &d.IsWinner,
		&d.IPAddress, &d.UserAgent, &fingerprint, &d.SpunAt,
		&playerName, &playerPhone,
		&prizeName, &prizeDesc, &prizeColor, &ic)
	if err != nil {
		return nil, err
	}
	d.PrizeID = stringPtr(prizeID)
	d.DeviceFingerprint = stringPtr(fingerprint)
	if playerName.Valid {
		d.Player = &models.PlayerContact{ID: d.PlayerID, Name: playerName.String, Phone: playerPhone.String}
	}
	if prizeName.Valid {
		d.Prize = &models.PrizeSummary{
			Name:        prizeName.String,
			Description: prizeDesc.String,
			Color:       prizeColor.String,
			Icon:        ic.String,
		}
	}
	return &d, nil
}

func (r *spinRepository) Create(ctx context.Context, s *models.Spin) error {
	s.ID = newID(s.ID)
	s.TenantID = r.tenantID
	s.SpunAt = stamp(s.SpunAt)

	query := `
		INSERT INTO spins (id, tenant_id, player_id, campaign_id, prize_id, is_winner, ip_address, user_agent, device_fingerprint, spun_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.TenantID, s.PlayerID, s.CampaignID, nullString(s.PrizeID), s.IsWinner,
		s.IPAddress, s.UserAgent, nullString(s.DeviceFingerprint), s.SpunAt)
	if err != nil {
		return classify(err)
	}
	return nil
}

func (r *spinRepository) GetByPlayerAndCampaign(ctx context.Context, playerID, campaignID string) (*models.Spin, error) {
	query := `
		SELECT ` + spinColumns + `
		FROM spins
		WHERE tenant_id = $1 AND player_id = $2 AND campaign_id = $3
		LIMIT 1
	`
	s, err := scanSpin(r.db.QueryRowContext(ctx, query, r.tenantID, playerID, campaignID))
	if err != nil {
		return nil, classify(err)
	}
	return s, nil
}

func (r *spinRepository) CountByCampaign(ctx context.Context, campaignID string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM spins WHERE tenant_id = $1 AND campaign_id = $2`
	if err := r.db.QueryRowContext(ctx, query, r.tenantID, campaignID).Scan(&n); err != nil {
		return 0, classify(err)
	}
	return n, nil
}

func (r *spinRepository) CountByCampaignForPlayers(ctx context.Context, campaignID string, playerIDs []string) (int, error) {
	if len(playerIDs) == 0 {
		return 0, nil
	}
	var n int
	query := `SELECT COUNT(*) FROM spins WHERE tenant_id = $1 AND campaign_id = $2 AND player_id = ANY($3::uuid[])`
	if err := r.db.QueryRowContext(ctx, query, r.tenantID, campaignID, pq.Array(playerIDs)).Scan(&n); err != nil {
		return 0, classify(err)
	}
	return n, nil
}

func (r *spinRepository) ListPlayerIDsByCampaign(ctx context.Context, campaignID string) ([]string, error) {
	query := `SELECT player_id FROM spins WHERE tenant_id = $1 AND campaign_id = $2`
	rows, err := r.db.QueryContext(ctx, query, r.tenantID, campaignID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan player id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return ids, nil
}

func (r *spinRepository) SetWinnerFlag(ctx context.Context, id string, isWinner bool) error {
	query := `UPDATE spins SET is_winner = $3 WHERE tenant_id = $1 AND id = $2`
	if _, err := r.db.ExecContext(ctx, query, r.tenantID, id, isWinner); err != nil {
		return classify(err)
	}
	return nil
}

func (r *spinRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM spins WHERE tenant_id = $1 AND id = $2`
	if _, err := r.db.ExecContext(ctx, query, r.tenantID, id); err != nil {
		return classify(err)
	}
	return nil
}

func (r *spinRepository) DeleteByPlayer(ctx context.Context, playerID string) error {
	query := `DELETE FROM spins WHERE tenant_id = $1 AND player_id = $2`
	if _, err := r.db.ExecContext(ctx, query, r.tenantID, playerID); err != nil {
		return classify(err)
	}
	return nil
}

func (r *spinRepository) DeleteAll(ctx context.Context) error {
	query := `DELETE FROM spins WHERE tenant_id = $1`
	if _, err := r.db.ExecContext(ctx, query, r.tenantID); err != nil {
		return classify(err)
	}
	return nil
}

func (r *spinRepository) ListDetailsByCampaign(ctx context.Context, campaignID string) ([]*models.SpinDetails, error) {
	query := spinDetailsSelect + `
		WHERE s.tenant_id = $1 AND s.campaign_id = $2
		ORDER BY s.spun_at DESC
	`
	return r.listDetails(ctx, query, r.tenantID, campaignID)
}

func (r *spinRepository) ListDetailsByPlayers(ctx context.Context, playerIDs []string) ([]*models.SpinDetails, error) {
	if len(playerIDs) == 0 {
		return []*models.SpinDetails{}, nil
	}
	query := spinDetailsSelect + `
		WHERE s.tenant_id = $1 AND s.player_id = ANY($2::uuid[])
		ORDER BY s.spun_at DESC
	`
	return r.listDetails(ctx, query, r.tenantID, pq.Array(playerIDs))
}

func (r *spinRepository) GetDetailsByIDs(ctx context.Context, ids []string) ([]*models.SpinDetails, error) {
	if len(ids) == 0 {
		return []*models.SpinDetails{}, nil
	}
	query := spinDetailsSelect + `
		WHERE s.tenant_id = $1 AND s.id = ANY($2::uuid[])
		ORDER BY s.spun_at DESC
	`
	return r.listDetails(ctx, query, r.tenantID, pq.Array(ids))
}

func (r *spinRepository) GetWinnerByCampaign(ctx context.Context, campaignID string) (*models.SpinDetails, error) {
	query := spinDetailsSelect + `
		WHERE s.tenant_id = $1 AND s.campaign_id = $2 AND s.is_winner = true
		ORDER BY s.spun_at ASC
		LIMIT 1
	`
	d, err := scanSpinDetails(r.db.QueryRowContext(ctx, query, r.tenantID, campaignID))
	if err != nil {
		return nil, classify(err)
	}
	return d, nil
}

func (r *spinRepository) listDetails(ctx context.Context, query string, args ...any) ([]*models.SpinDetails, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	spins := make([]*models.SpinDetails, 0)
	for rows.Next() {
		d, err := scanSpinDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan spin: %w", err)
		}
		spins = append(spins, d)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return spins, nil
}
