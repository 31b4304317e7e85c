package models

import (
	"fmt"
	"time"
)

// CampaignState collapses every read view over the latest campaign into one enum.
type CampaignState string

const (
	CampaignStateNone   CampaignState = "none"   // No campaign exists yet
	CampaignStateActive CampaignState = "active" // Accepting registrations and spins
	CampaignStateClosed CampaignState = "closed" // Inactive, no winner drawn
	CampaignStateDrawn  CampaignState = "drawn"  // Inactive with a winner
)

const (
	EmergencyCampaignName = "Sorteio de Emergência"

	campaignNameLayout = "02/01/2006, 15:04:05"
)

// Campaign is a time-boxed raffle period with at most one winner.
type Campaign struct {
	ID        string     `json:"id"`
	TenantID  string     `json:"tenant_id"`
	Name      string     `json:"name"`
	IsActive  bool       `json:"is_active"`
	StartedAt *time.Time `json:"started_at"`
	EndsAt    *time.Time `json:"ends_at"`
	WinnerID  *string    `json:"winner_id"` // Spin id
	CreatedAt time.Time  `json:"created_at"`
}

// IsExpired reports whether an active campaign ran past its end time.
func (c *Campaign) IsExpired(now time.Time) bool {
	return c.IsActive && c.EndsAt != nil && c.EndsAt.Before(now)
}

func (c *Campaign) HasWinner() bool {
	return c.WinnerID != nil && *c.WinnerID != ""
}

// State returns the read-view state of c; a nil campaign is CampaignStateNone.
func (c *Campaign) State() CampaignState {
	switch {
	case c == nil:
		return CampaignStateNone
	case c.IsActive:
		return CampaignStateActive
	case c.HasWinner():
		return CampaignStateDrawn
	default:
		return CampaignStateClosed
	}
}

// NewCampaign builds the campaign created by an admin activation.
func NewCampaign(tenantID string, now time.Time, duration time.Duration, loc *time.Location) *Campaign {
	started := now
	ends := now.Add(duration)
	return &Campaign{
		TenantID:  tenantID,
		Name:      CampaignName(now, loc),
		IsActive:  true,
		StartedAt: &started,
		EndsAt:    &ends,
		CreatedAt: now,
	}
}

// CampaignName renders "Campanha dd/mm/yyyy, hh:mm:ss" in loc.
func CampaignName(t time.Time, loc *time.Location) string {
	return fmt.Sprintf("Campanha %s", FormatLocal(t, loc))
}

// FormatLocal formats t the way pt-BR locale strings look.
func FormatLocal(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(campaignNameLayout)
}
