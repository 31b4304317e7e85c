package memory

import (
	"context"
	"sort"

	"spin-raffle-backend/internal/features/raffle/models"
	"spin-raffle-backend/internal/features/raffle/repository"
)

type prizeRepository struct {
	s *state
}

func (r *prizeRepository) ListActive(_ context.Context) ([]*models.Prize, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*prizeRow, 0, len(r.s.prizes))
	for _, row := range r.s.prizes {
		if row.IsActive {
			rows = append(rows, row)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].Probability.Cmp(rows[j].Probability); c != 0 {
			return c > 0
		}
		return rows[i].seq < rows[j].seq
	})

	out := make([]*models.Prize, 0, len(rows))
	for _, row := range rows {
		p := row.Prize
		out = append(out, &p)
	}
	return out, nil
}

func (r *prizeRepository) GetFirst(_ context.Context) (*models.Prize, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var first *prizeRow
	for _, row := range r.s.prizes {
		if first == nil || row.seq < first.seq {
			first = row
		}
	}
	if first == nil {
		return nil, repository.ErrNotFound
	}
	p := first.Prize
	return &p, nil
}

func (r *prizeRepository) Create(_ context.Context, p *models.Prize) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.Name == "" {
		return notNull("name")
	}
	p.ID = newID(p.ID)
	p.TenantID = r.s.tenantID
	r.s.prizes[p.ID] = &prizeRow{Prize: *p, seq: r.s.next()}
	return nil
}
