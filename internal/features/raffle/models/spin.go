package models

import "time"

const (
	// DummyPrizeID is sent by clients that have no prize catalog loaded.
	DummyPrizeID = "dummy"

	SystemDrawClient = "system_draw"
	ManualDrawClient = "manual_draw"
)

// Spin is one recorded wheel spin. At most one per player per campaign.
type Spin struct {
	ID                string    `json:"id"`
	TenantID          string    `json:"tenant_id"`
	PlayerID          string    `json:"player_id"`
	CampaignID        string    `json:"campaign_id"`
	PrizeID           *string   `json:"prize_id"`
	IsWinner          bool      `json:"is_winner"`
	IPAddress         string    `json:"ip_address"`
	UserAgent         string    `json:"user_agent"`
	DeviceFingerprint *string   `json:"device_fingerprint"`
	SpunAt            time.Time `json:"spun_at"`
}

// SpinDetails is a spin joined with its player and prize.
type SpinDetails struct {
	Spin
	Player *PlayerContact `json:"players"`
	Prize  *PrizeSummary  `json:"prizes"`
}

// RecordSpinRequest is the input of a spin.
type RecordSpinRequest struct {
	PlayerID          string `json:"playerId"`
	PrizeID           string `json:"prizeId"`
	DeviceFingerprint string `json:"deviceFingerprint,omitempty"`
	IPAddress         string `json:"-"`
	UserAgent         string `json:"-"`
}

type SpinResult struct {
	Data     *Spin `json:"data"`
	IsWinner bool  `json:"isWinner"`
}
