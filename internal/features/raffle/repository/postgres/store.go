package postgres

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"spin-raffle-backend/internal/features/raffle/repository"
)

type scanner interface {
	Scan(dest ...any) error
}

// New returns the raffle repositories for tenantID backed by db.
func New(db *sql.DB, tenantID string) *repository.Store {
	return &repository.Store{
		Campaigns: NewCampaignRepository(db, tenantID),
		Players:   NewPlayerRepository(db, tenantID),
		Spins:     NewSpinRepository(db, tenantID),
		Prizes:    NewPrizeRepository(db, tenantID),
	}
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

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
