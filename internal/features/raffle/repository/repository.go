package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"spin-raffle-backend/internal/features/raffle/models"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("duplicate key")
	ErrNotNull          = errors.New("not-null violation")
	ErrForeignKey       = errors.New("foreign key violation")
	ErrConstraint       = errors.New("constraint violation")
	ErrPermissionDenied = errors.New("permission denied")
)

// Postgres SQLSTATE codes surfaced through StorageError.Code.
const (
	CodeUniqueViolation     = "23505"
	CodeNotNullViolation    = "23502"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
	CodeInsufficientPriv    = "42501"
)

// StorageError is a classified database failure. Kind is one of the sentinels above
// or nil when the failure did not match any known class.
type StorageError struct {
	Kind       error
	Code       string
	Constraint string
	Message    string
	Err        error
}

func (e *StorageError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (code %s)", e.Message, e.Code)
	}
	return e.Message
}

func (e *StorageError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Mentions reports whether the constraint name or message contains s.
func (e *StorageError) Mentions(s string) bool {
	return strings.Contains(e.Constraint, s) || strings.Contains(e.Message, s)
}

// AsStorageError extracts the StorageError from err's chain.
func AsStorageError(err error) (*StorageError, bool) {
	var se *StorageError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// KindFromCode maps a SQLSTATE code to its sentinel.
func KindFromCode(code string) error {
	switch code {
	case CodeUniqueViolation:
		return ErrDuplicate
	case CodeNotNullViolation:
		return ErrNotNull
	case CodeForeignKeyViolation:
		return ErrForeignKey
	case CodeCheckViolation:
		return ErrConstraint
	case CodeInsufficientPriv:
		return ErrPermissionDenied
	}
	return nil
}

// KindFromMessage is the fallback for drivers or proxies that lose the SQLSTATE.
func KindFromMessage(msg string) error {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "duplicate"), strings.Contains(m, "unique"):
		return ErrDuplicate
	case strings.Contains(m, "permission denied"):
		return ErrPermissionDenied
	case strings.Contains(m, "foreign key"):
		return ErrForeignKey
	case strings.Contains(m, "null value"):
		return ErrNotNull
	case strings.Contains(m, "violates"):
		return ErrConstraint
	case strings.Contains(m, "not found"):
		return ErrNotFound
	}
	return nil
}

// CampaignRepository stores campaigns of a single tenant.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
	// GetLatest returns the most recently created campaign, active or not.
	GetLatest(ctx context.Context) (*models.Campaign, error)
	// GetLatestActive returns the most recently created active campaign.
	GetLatestActive(ctx context.Context) (*models.Campaign, error)

	Deactivate(ctx context.Context, id string) error
	DeactivateAll(ctx context.Context) error
	// DeactivateExpired closes active campaigns whose ends_at is before now.
	DeactivateExpired(ctx context.Context, now time.Time) ([]string, error)

	// SetWinnerIfEmpty stores spinID as the winner only while no winner is set.
	// It reports whether this call stored the winner.
	SetWinnerIfEmpty(ctx context.Context, id, spinID string, closeCampaign bool) (bool, error)
	// SetWinner overwrites the winner and closes the campaign.
	SetWinner(ctx context.Context, id, spinID string) error
	ClearWinners(ctx context.Context) error

	// ListWithWinner pages campaigns that have a winner, newest first, with the total count.
	ListWithWinner(ctx context.Context, limit, offset int) ([]*models.Campaign, int, error)
	// ListAll returns every campaign ordered by started_at desc.
	ListAll(ctx context.Context) ([]*models.Campaign, error)
}

// PlayerRepository stores players of a single tenant.
type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id string) (*models.Player, error)
	GetByPhone(ctx context.Context, phone string) (*models.Player, error)
	ListIDsByFingerprint(ctx context.Context, fingerprint string) ([]string, error)
	ListByIDs(ctx context.Context, ids []string) ([]*models.Player, error)

	// ListCreatedSince returns players created at or after since, newest first.
	// A non-positive limit returns every match.
	ListCreatedSince(ctx context.Context, since time.Time, limit, offset int) ([]*models.Player, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	// ListRecent returns the limit most recently created players.
	ListRecent(ctx context.Context, limit int) ([]*models.Player, error)
	Count(ctx context.Context) (int, error)

	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// SpinRepository stores spins of a single tenant.
type SpinRepository interface {
	Create(ctx context.Context, spin *models.Spin) error
	GetByPlayerAndCampaign(ctx context.Context, playerID, campaignID string) (*models.Spin, error)
	CountByCampaign(ctx context.Context, campaignID string) (int, error)
	CountByCampaignForPlayers(ctx context.Context, campaignID string, playerIDs []string) (int, error)
	ListPlayerIDsByCampaign(ctx context.Context, campaignID string) ([]string, error)

	SetWinnerFlag(ctx context.Context, id string, isWinner bool) error
	Delete(ctx context.Context, id string) error
	DeleteByPlayer(ctx context.Context, playerID string) error
	DeleteAll(ctx context.Context) error

	// ListDetailsByCampaign returns the campaign's spins, newest first.
	ListDetailsByCampaign(ctx context.Context, campaignID string) ([]*models.SpinDetails, error)
	// ListDetailsByPlayers returns the players' spins, newest first.
	ListDetailsByPlayers(ctx context.Context, playerIDs []string) ([]*models.SpinDetails, error)
	GetDetailsByIDs(ctx context.Context, ids []string) ([]*models.SpinDetails, error)
	// GetWinnerByCampaign returns the earliest spin flagged as winner in the campaign.
	GetWinnerByCampaign(ctx context.Context, campaignID string) (*models.SpinDetails, error)
}

// PrizeRepository stores the prize catalog of a single tenant.
type PrizeRepository interface {
	// ListActive returns active prizes by probability desc.
	ListActive(ctx context.Context) ([]*models.Prize, error)
	// GetFirst returns any prize of the tenant, active or not.
	GetFirst(ctx context.Context) (*models.Prize, error)
	Create(ctx context.Context, prize *models.Prize) error
}

// Store bundles the repositories a raffle service needs.
type Store struct {
	Campaigns CampaignRepository
	Players   PlayerRepository
	Spins     SpinRepository
	Prizes    PrizeRepository
}
