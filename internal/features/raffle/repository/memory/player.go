package memory

import (
	"context"
	"strings"
	"time"

	"spin-raffle-backend/internal/features/raffle/models"
	"spin-raffle-backend/internal/features/raffle/repository"
)

const playerPhoneKey = "players_tenant_id_phone_key"

type playerRepository struct {
	s *state
}

func (r *playerRepository) Create(_ context.Context, p *models.Player) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.Name) == "" {
		return notNull("name")
	}
	if strings.TrimSpace(p.Phone) == "" {
		return notNull("phone")
	}
	for _, row := range r.s.players {
		if row.Phone == p.Phone {
			return duplicate(playerPhoneKey)
		}
	}

	p.ID = newID(p.ID)
	p.TenantID = r.s.tenantID
	p.CreatedAt = stamp(p.CreatedAt)
	r.s.players[p.ID] = &playerRow{Player: *p, seq: r.s.next()}
	return nil
}

func (r *playerRepository) GetByID(_ context.Context, id string) (*models.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.players[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := row.Player
	return &p, nil
}

func (r *playerRepository) GetByPhone(_ context.Context, phone string) (*models.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.players {
		if row.Phone == phone {
			p := row.Player
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *playerRepository) ListIDsByFingerprint(_ context.Context, fingerprint string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var ids []string
	for _, row := range r.s.players {
		if row.DeviceFingerprint != nil && *row.DeviceFingerprint == fingerprint {
			ids = append(ids, row.ID)
		}
	}
	return ids, nil
}

func (r *playerRepository) ListByIDs(_ context.Context, ids []string) ([]*models.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	want := idSet(ids)
	return r.list(func(row *playerRow) bool {
		_, ok := want[row.ID]
		return ok
	}, 0, 0), nil
}

func (r *playerRepository) ListCreatedSince(_ context.Context, since time.Time, limit, offset int) ([]*models.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.list(func(row *playerRow) bool { return !row.CreatedAt.Before(since) }, limit, offset), nil
}

func (r *playerRepository) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, row := range r.s.players {
		if !row.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *playerRepository) ListRecent(_ context.Context, limit int) ([]*models.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.list(func(*playerRow) bool { return true }, limit, 0), nil
}

func (r *playerRepository) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return len(r.s.players), nil
}

func (r *playerRepository) list(match func(*playerRow) bool, limit, offset int) []*models.Player {
	rows := make([]*playerRow, 0, len(r.s.players))
	for _, row := range r.s.players {
		if match(row) {
			rows = append(rows, row)
		}
	}
	newestFirst(rows,
		func(row *playerRow) time.Time { return row.CreatedAt },
		func(row *playerRow) int64 { return row.seq })

	out := make([]*models.Player, 0, len(rows))
	for _, row := range page(rows, limit, offset) {
		p := row.Player
		out = append(out, &p)
	}
	return out
}

// Delete removes the player; its spins cascade and winner references are nulled.
func (r *playerRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.players, id)
	for spinID, row := range r.s.spins {
		if row.PlayerID == id {
			r.s.deleteSpin(spinID)
		}
	}
	return nil
}

func (r *playerRepository) DeleteAll(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id := range r.s.spins {
		r.s.deleteSpin(id)
	}
	r.s.players = make(map[string]*playerRow)
	return nil
}
