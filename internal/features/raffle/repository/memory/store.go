// Package memory is an in-process implementation of the raffle repositories.
// It emulates the unique keys, foreign keys and cascades of the SQL schema.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"spin-raffle-backend/internal/features/raffle/models"
	"spin-raffle-backend/internal/features/raffle/repository"
)

type state struct {
	mu        sync.RWMutex
	tenantID  string
	seq       int64
	campaigns map[string]*campaignRow
	players   map[string]*playerRow
	spins     map[string]*spinRow
	prizes    map[string]*prizeRow
}

type campaignRow struct {
	models.Campaign
	seq int64
}

type playerRow struct {
	models.Player
	seq int64
}

type spinRow struct {
	models.Spin
	seq int64
}

type prizeRow struct {
	models.Prize
	seq int64
}

// New returns repositories backed by a fresh in-memory state for tenantID.
func New(tenantID string) *repository.Store {
	s := &state{
		tenantID:  tenantID,
		campaigns: make(map[string]*campaignRow),
		players:   make(map[string]*playerRow),
		spins:     make(map[string]*spinRow),
		prizes:    make(map[string]*prizeRow),
	}
	return &repository.Store{
		Campaigns: &campaignRepository{s},
		Players:   &playerRepository{s},
		Spins:     &spinRepository{s},
		Prizes:    &prizeRepository{s},
	}
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

func duplicate(constraint string) error {
	return &repository.StorageError{
		Kind:       repository.ErrDuplicate,
		Code:       repository.CodeUniqueViolation,
		Constraint: constraint,
		Message:    fmt.Sprintf("duplicate key value violates unique constraint %q", constraint),
	}
}

func notNull(column string) error {
	return &repository.StorageError{
		Kind:    repository.ErrNotNull,
		Code:    repository.CodeNotNullViolation,
		Message: fmt.Sprintf("null value in column %q violates not-null constraint", column),
	}
}

func foreignKey(constraint string) error {
	return &repository.StorageError{
		Kind:       repository.ErrForeignKey,
		Code:       repository.CodeForeignKeyViolation,
		Constraint: constraint,
		Message:    fmt.Sprintf("insert or update violates foreign key constraint %q", constraint),
	}
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// newestFirst orders by timestamp desc, breaking ties by insertion order desc.
func newestFirst[T any](items []T, at func(T) time.Time, seq func(T) int64) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := at(items[i]), at(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return seq(items[i]) > seq(items[j])
	})
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s *state) details(row *spinRow) *models.SpinDetails {
	d := &models.SpinDetails{Spin: row.Spin}
	if p, ok := s.players[row.PlayerID]; ok {
		d.Player = &models.PlayerContact{ID: p.ID, Name: p.Name, Phone: p.Phone}
	}
	if row.PrizeID != nil {
		if pr, ok := s.prizes[*row.PrizeID]; ok {
			d.Prize = pr.Summary()
		}
	}
	return d
}
