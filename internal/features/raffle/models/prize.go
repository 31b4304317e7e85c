package models

import "github.com/shopspring/decimal"

const (
	FallbackPrizeName  = "Participação"
	FallbackPrizeColor = "#cccccc"

	DefaultWinnerPrize = "R$ 50 Vale Compra"
)

// Prize is a wheel segment. Probability is shown on the wheel but never used to pick winners.
type Prize struct {
	ID          string          `json:"id"`
	TenantID    string          `json:"tenant_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Probability decimal.Decimal `json:"probability"`
	Color       string          `json:"color"`
	Icon        string          `json:"icon"`
	IsActive    bool            `json:"is_active"`
}

// NewFallbackPrize returns the prize created when the catalog is empty.
func NewFallbackPrize(tenantID string) *Prize {
	return &Prize{
		TenantID:    tenantID,
		Name:        FallbackPrizeName,
		Probability: decimal.Zero,
		Color:       FallbackPrizeColor,
		IsActive:    true,
	}
}

// PrizeSummary is the prize projection embedded in read views.
type PrizeSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

func (p *Prize) Summary() *PrizeSummary {
	if p == nil {
		return nil
	}
	return &PrizeSummary{Name: p.Name, Description: p.Description, Color: p.Color, Icon: p.Icon}
}
