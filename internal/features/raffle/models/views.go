package models

import "time"

const (
	NoSpinPrizeName = "Cadastro (Sem Giro)"
	UnknownWinner   = "Desconhecido"
	UnknownPhone    = "..."
)

// HistoryEntry is one participant row of the current campaign.
type HistoryEntry struct {
	ID       string        `json:"id"`
	SpunAt   time.Time     `json:"spun_at"`
	IsWinner bool          `json:"is_winner"`
	Player   PlayerContact `json:"players"`
	Prize    *PrizeSummary `json:"prizes"`
	HasSpun  bool          `json:"has_spun"`
}

type HistoryPage struct {
	Data  []HistoryEntry `json:"data"`
	Total int            `json:"total"`
}

// CampaignStats summarises the latest campaign.
type CampaignStats struct {
	Campaign   *Campaign     `json:"campaign"`
	State      CampaignState `json:"state"`
	TotalSpins int           `json:"totalSpins"`
	Winner     *SpinDetails  `json:"winner"`
}

type WinnerSummary struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Prize string `json:"prize"`
}

// PastWinner is one entry of the winners gallery.
type PastWinner struct {
	ID           string        `json:"id"`
	CampaignName string        `json:"campaignName"`
	Date         *time.Time    `json:"date"`
	Winner       WinnerSummary `json:"winner"`
}

type PastWinnersPage struct {
	Data  []PastWinner `json:"data"`
	Total int          `json:"total"`
}

// CampaignWinner pairs a campaign with its winning spin.
type CampaignWinner struct {
	Campaign          *Campaign    `json:"campaign"`
	Winner            *SpinDetails `json:"winner"`
	TotalParticipants int          `json:"totalParticipants"`
}

type DrawWinner struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	SpinID string `json:"spinId"`
}

type DrawResult struct {
	Success    bool       `json:"success"`
	AlreadyWon bool       `json:"alreadyWon,omitempty"`
	Winner     DrawWinner `json:"winner"`
}

type DeactivateResult struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Cleared bool      `json:"cleared,omitempty"`
	Data    *Campaign `json:"data,omitempty"`
}

// MessageResult is returned by admin operations that only report an outcome.
type MessageResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CSVExport struct {
	CSV               string `json:"csv"`
	TotalParticipants int    `json:"totalParticipants"`
}

type ImportResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Restored int    `json:"restored"`
	Failed   int    `json:"failed"`
}
