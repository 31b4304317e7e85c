package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"spin-raffle-backend/internal/features/raffle/models"
	"spin-raffle-backend/internal/features/raffle/repository"
)

const playerColumns = `id, tenant_id, name, phone, email, ip_address, user_agent, device_fingerprint, created_at`

type playerRepository struct {
	db       *sql.DB
	tenantID string
}

func NewPlayerRepository(db *sql.DB, tenantID string) repository.PlayerRepository {
	return &playerRepository{db: db, tenantID: tenantID}
}

func scanPlayer(row scanner) (*models.Player, error) {
	var (
		p           models.Player
		email       sql.NullString
		fingerprint sql.NullString
	)
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Phone, &email,
		&p.IPAddress, &p.UserAgent, &fingerprint, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Email = stringPtr(email)
	p.DeviceFingerprint = stringPtr(fingerprint)
	return &p, nil
}

func (r *playerRepository) Create(ctx context.Context, p *models.Player) error {
	p.ID = newID(p.ID)
	p.TenantID = r.tenantID
	p.CreatedAt = stamp(p.CreatedAt)

	query := `
		INSERT INTO players (id, tenant_id, name, phone, email, ip_address, user_agent, device_fingerprint, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.TenantID, p.Name, p.Phone, nullString(p.Email),
		p.IPAddress, p.UserAgent, nullString(p.DeviceFingerprint), p.CreatedAt)
	if err != nil {
		return classify(err)
	}
	return nil
}

func (r *playerRepository) GetByID(ctx context.Context, id string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE tenant_id = $1 AND id = $2`
	p, err := scanPlayer(r.db.QueryRowContext(ctx, query, r.tenantID, id))
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

func (r *playerRepository) GetByPhone(ctx context.Context, phone string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE tenant_id = $1 AND phone = $2`
	p, err := scanPlayer(r.db.QueryRowContext(ctx, query, r.tenantID, phone))
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

func (r *playerRepository) ListIDsByFingerprint(ctx context.Context, fingerprint string) ([]string, error) {
	query := `SELECT id FROM players WHERE tenant_id = $1 AND device_fingerprint = $2`
	rows, err := r.db.QueryContext(ctx, query, r.tenantID, fingerprint)
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

func (r *playerRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.Player, error) {
	if len(ids) == 0 {
		return []*models.Player{}, nil
	}
	query := `
		SELECT ` + playerColumns + `
		FROM players
		WHERE tenant_id = $1 AND id = ANY($2::uuid[])
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, r.tenantID, pq.Array(ids))
}

func (r *playerRepository) ListCreatedSince(ctx context.Context, since time.Time, limit, offset int) ([]*models.Player, error) {
	query := `
		SELECT ` + playerColumns + `
		FROM players
		WHERE tenant_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	var lim sql.NullInt64
	if limit > 0 {
		lim = sql.NullInt64{Int64: int64(limit), Valid: true}
	}
	return r.list(ctx, query, r.tenantID, since, lim, offset)
}

func (r *playerRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM players WHERE tenant_id = $1 AND created_at >= $2`
	if err := r.db.QueryRowContext(ctx, query, r.tenantID, since).Scan(&n); err != nil {
		return 0, classify(err)
	}
	return n, nil
}

func (r *playerRepository) ListRecent(ctx context.Context, limit int) ([]*models.Player, error) {
	query := `
		SELECT ` + playerColumns + `
		FROM players
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.list(ctx, query, r.tenantID, limit)
}

func (r *playerRepository) Count(ctx context.Context) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM players WHERE tenant_id = $1`
	if err := r.db.QueryRowContext(ctx, query, r.tenantID).Scan(&n); err != nil {
		return 0, classify(err)
	}
	return n, nil
}

// Delete removes the player. Spins cascade through spins_player_id_fkey.
func (r *playerRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM players WHERE tenant_id = $1 AND id = $2`
	if _, err := r.db.ExecContext(ctx, query, r.tenantID, id); err != nil {
		return classify(err)
	}
	return nil
}

func (r *playerRepository) DeleteAll(ctx context.Context) error {
	query := `DELETE FROM players WHERE tenant_id = $1`
	if _, err := r.db.ExecContext(ctx, query, r.tenantID); err != nil {
		return classify(err)
	}
	return nil
}

func (r *playerRepository) list(ctx context.Context, query string, args ...any) ([]*models.Player, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return players, nil
}
