package memory

import (
	"context"
	"time"

	"spin-raffle-backend/internal/features/raffle/models"
	"spin-raffle-backend/internal/features/raffle/repository"
)

const spinPlayerCampaignKey = "spins_tenant_id_campaign_id_player_id_key"

type spinRepository struct {
	s *state
}

// deleteSpin removes a spin and nulls campaign winner references to it. Callers hold the lock.
func (s *state) deleteSpin(id string) {
	delete(s.spins, id)
	for _, c := range s.campaigns {
		if c.WinnerID != nil && *c.WinnerID == id {
			c.WinnerID = nil
		}
	}
}

func (r *spinRepository) Create(_ context.Context, sp *models.Spin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.players[sp.PlayerID]; !ok {
		return foreignKey("spins_player_id_fkey")
	}
	if _, ok := r.s.campaigns[sp.CampaignID]; !ok {
		return foreignKey("spins_campaign_id_fkey")
	}
	if sp.PrizeID != nil {
		if _, ok := r.s.prizes[*sp.PrizeID]; !ok {
			return foreignKey("spins_prize_id_fkey")
		}
	}
	for _, row := range r.s.spins {
		if row.PlayerID == sp.PlayerID && row.CampaignID == sp.CampaignID {
			return duplicate(spinPlayerCampaignKey)
		}
	}

	sp.ID = newID(sp.ID)
	sp.TenantID = r.s.tenantID
	sp.SpunAt = stamp(sp.SpunAt)
	r.s.spins[sp.ID] = &spinRow{Spin: *sp, seq: r.s.next()}
	return nil
}

func (r *spinRepository) GetByPlayerAndCampaign(_ context.Context, playerID, campaignID string) (*models.Spin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.spins {
		if row.PlayerID == playerID && row.CampaignID == campaignID {
			sp := row.Spin
			return &sp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *spinRepository) CountByCampaign(_ context.Context, campaignID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, row := range r.s.spins {
		if row.CampaignID == campaignID {
			n++
		}
	}
	return n, nil
}

func (r *spinRepository) CountByCampaignForPlayers(_ context.Context, campaignID string, playerIDs []string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	want := idSet(playerIDs)
	n := 0
	for _, row := range r.s.spins {
		if _, ok := want[row.PlayerID]; ok && row.CampaignID == campaignID {
			n++
		}
	}
	return n, nil
}

func (r *spinRepository) ListPlayerIDsByCampaign(_ context.Context, campaignID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var ids []string
	for _, row := range r.s.spins {
		if row.CampaignID == campaignID {
			ids = append(ids, row.PlayerID)
		}
	}
	return ids, nil
}

func (r *spinRepository) SetWinnerFlag(_ context.Context, id string, isWinner bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if row, ok := r.s.spins[id]; ok {
		row.IsWinner = isWinner
	}
	return nil
}

func (r *spinRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.deleteSpin(id)
	return nil
}

func (r *spinRepository) DeleteByPlayer(_ context.Context, playerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, row := range r.s.spins {
		if row.PlayerID == playerID {
			r.s.deleteSpin(id)
		}
	}
	return nil
}

func (r *spinRepository) DeleteAll(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id := range r.s.spins {
		r.s.deleteSpin(id)
	}
	return nil
}

func (r *spinRepository) ListDetailsByCampaign(_ context.Context, campaignID string) ([]*models.SpinDetails, error) {
	return r.listDetails(func(row *spinRow) bool { return row.CampaignID == campaignID }), nil
}

func (r *spinRepository) ListDetailsByPlayers(_ context.Context, playerIDs []string) ([]*models.SpinDetails, error) {
	want := idSet(playerIDs)
	return r.listDetails(func(row *spinRow) bool {
		_, ok := want[row.PlayerID]
		return ok
	}), nil
}

func (r *spinRepository) GetDetailsByIDs(_ context.Context, ids []string) ([]*models.SpinDetails, error) {
	want := idSet(ids)
	return r.listDetails(func(row *spinRow) bool {
		_, ok := want[row.ID]
		return ok
	}), nil
}

func (r *spinRepository) GetWinnerByCampaign(_ context.Context, campaignID string) (*models.SpinDetails, error) {
	winners := r.listDetails(func(row *spinRow) bool { return row.CampaignID == campaignID && row.IsWinner })
	if len(winners) == 0 {
		return nil, repository.ErrNotFound
	}
	return winners[len(winners)-1], nil
}

func (r *spinRepository) listDetails(match func(*spinRow) bool) []*models.SpinDetails {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*spinRow, 0)
	for _, row := range r.s.spins {
		if match(row) {
			rows = append(rows, row)
		}
	}
	newestFirst(rows,
		func(row *spinRow) time.Time { return row.SpunAt },
		func(row *spinRow) int64 { return row.seq })

	out := make([]*models.SpinDetails, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.s.details(row))
	}
	return out
}
