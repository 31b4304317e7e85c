package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"spin-raffle-backend/internal/features/raffle/models"
	"spin-raffle-backend/internal/features/raffle/repository"
)

const prizeColumns = `id, tenant_id, name, description, probability, color, icon, is_active`

type prizeRepository struct {
	db       *sql.DB
	tenantID string
}

func NewPrizeRepository(db *sql.DB, tenantID string) repository.PrizeRepository {
	return &prizeRepository{db: db, tenantID: tenantID}
}

func scanPrize(row scanner) (*models.Prize, error) {
	var p models.Prize
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Probability, &p.Color, &p.Icon, &p.IsActive)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *prizeRepository) ListActive(ctx context.Context) ([]*models.Prize, error) {
	query := `
		SELECT ` + prizeColumns + `
		FROM prizes
		WHERE tenant_id = $1 AND is_active = true
		ORDER BY probability DESC
	`
	rows, err := r.db.QueryContext(ctx, query, r.tenantID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	prizes := make([]*models.Prize, 0)
	for rows.Next() {
		p, err := scanPrize(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prize: %w", err)
		}
		prizes = append(prizes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return prizes, nil
}

func (r *prizeRepository) GetFirst(ctx context.Context) (*models.Prize, error) {
	query := `SELECT ` + prizeColumns + ` FROM prizes WHERE tenant_id = $1 LIMIT 1`
	p, err := scanPrize(r.db.QueryRowContext(ctx, query, r.tenantID))
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

func (r *prizeRepository) Create(ctx context.Context, p *models.Prize) error {
	p.ID = newID(p.ID)
	p.TenantID = r.tenantID

	query := `
		INSERT INTO prizes (id, tenant_id, name, description, probability, color, icon, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.TenantID, p.Name, p.Description, p.Probability, p.Color, p.Icon, p.IsActive)
	if err != nil {
		return classify(err)
	}
	return nil
}
