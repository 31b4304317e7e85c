package memory

import (
	"context"
	"time"

	"spin-raffle-backend/internal/features/raffle/models"
	"spin-raffle-backend/internal/features/raffle/repository"
)

type campaignRepository struct {
	s *state
}

func (r *campaignRepository) Create(_ context.Context, c *models.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c.Name == "" {
		return notNull("name")
	}
	c.ID = newID(c.ID)
	c.TenantID = r.s.tenantID
	c.CreatedAt = stamp(c.CreatedAt)
	r.s.campaigns[c.ID] = &campaignRow{Campaign: *c, seq: r.s.next()}
	return nil
}

func (r *campaignRepository) GetByID(_ context.Context, id string) (*models.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.campaigns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := row.Campaign
	return &c, nil
}

func (r *campaignRepository) GetLatest(_ context.Context) (*models.Campaign, error) {
	return r.latest(func(*campaignRow) bool { return true })
}

func (r *campaignRepository) GetLatestActive(_ context.Context) (*models.Campaign, error) {
	return r.latest(func(row *campaignRow) bool { return row.IsActive })
}

func (r *campaignRepository) latest(match func(*campaignRow) bool) (*models.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.sorted(func(row *campaignRow) time.Time { return row.CreatedAt }, match)
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	c := rows[0].Campaign
	return &c, nil
}

func (r *campaignRepository) sorted(at func(*campaignRow) time.Time, match func(*campaignRow) bool) []*campaignRow {
	rows := make([]*campaignRow, 0, len(r.s.campaigns))
	for _, row := range r.s.campaigns {
		if match(row) {
			rows = append(rows, row)
		}
	}
	newestFirst(rows, at, func(row *campaignRow) int64 { return row.seq })
	return rows
}

func (r *campaignRepository) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if row, ok := r.s.campaigns[id]; ok {
		row.IsActive = false
	}
	return nil
}

func (r *campaignRepository) DeactivateAll(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, row := range r.s.campaigns {
		row.IsActive = false
	}
	return nil
}

func (r *campaignRepository) DeactivateExpired(_ context.Context, now time.Time) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var ids []string
	for _, row := range r.s.campaigns {
		if row.IsExpired(now) {
			row.IsActive = false
			ids = append(ids, row.ID)
		}
	}
	return ids, nil
}

func (r *campaignRepository) SetWinnerIfEmpty(_ context.Context, id, spinID string, closeCampaign bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.campaigns[id]
	if !ok || row.HasWinner() {
		return false, nil
	}
	if _, ok := r.s.spins[spinID]; !ok {
		return false, foreignKey("campaigns_winner_id_fkey")
	}
	winner := spinID
	row.WinnerID = &winner
	if closeCampaign {
		row.IsActive = false
	}
	return true, nil
}

func (r *campaignRepository) SetWinner(_ context.Context, id, spinID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.campaigns[id]
	if !ok {
		return nil
	}
	if _, ok := r.s.spins[spinID]; !ok {
		return foreignKey("campaigns_winner_id_fkey")
	}
	winner := spinID
	row.WinnerID = &winner
	row.IsActive = false
	return nil
}

func (r *campaignRepository) ClearWinners(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, row := range r.s.campaigns {
		row.WinnerID = nil
	}
	return nil
}

func (r *campaignRepository) ListWithWinner(_ context.Context, limit, offset int) ([]*models.Campaign, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.sorted(func(row *campaignRow) time.Time { return row.CreatedAt },
		func(row *campaignRow) bool { return row.HasWinner() })

	out := make([]*models.Campaign, 0, len(rows))
	for _, row := range page(rows, limit, offset) {
		c := row.Campaign
		out = append(out, &c)
	}
	return out, len(rows), nil
}

func (r *campaignRepository) ListAll(_ context.Context) ([]*models.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.sorted(func(row *campaignRow) time.Time {
		if row.StartedAt == nil {
			return time.Time{}
		}
		return *row.StartedAt
	}, func(*campaignRow) bool { return true })

	out := make([]*models.Campaign, 0, len(rows))
	for _, row := range rows {
		c := row.Campaign
		out = append(out, &c)
	}
	return out, nil
}
