package service

import (
	"context"

	"spin-raffle-backend/internal/features/raffle/models"
)

// RaffleService defines the operations of the spin raffle
type RaffleService interface {
	// Visitors
	RegisterPlayer(ctx context.Context, req *models.RegisterPlayerRequest) (*models.Player, error)
	RecordSpin(ctx context.Context, req *models.RecordSpinRequest) (*models.SpinResult, error)
	GetPrizes(ctx context.Context) ([]*models.Prize, error)

	// Campaign lifecycle
	GetActiveCampaign(ctx context.Context) (*models.Campaign, error)
	ActivateCampaign(ctx context.Context) (*models.Campaign, error)
	DeactivateCampaign(ctx context.Context, clear bool) (*models.DeactivateResult, error)
	ExpireCampaigns(ctx context.Context) (int, error)

	// Read models
	GetSpinHistory(ctx context.Context, limit, offset int) (*models.HistoryPage, error)
	GetCampaignStats(ctx context.Context) (*models.CampaignStats, error)
	GetPastWinners(ctx context.Context, limit, offset int) (*models.PastWinnersPage, error)
	GetAllWinners(ctx context.Context) ([]*models.CampaignWinner, error)

	// Draws
	DrawWinner(ctx context.Context, campaignID string) (*models.DrawResult, error)
	EmergencyDraw(ctx context.Context) (*models.DrawResult, error)

	// Participants administration
	ClearParticipants(ctx context.Context) (*models.MessageResult, error)
	DeleteParticipant(ctx context.Context, playerID string) (*models.MessageResult, error)
	GenerateTestParticipants(ctx context.Context) (*models.MessageResult, error)
	ExportParticipantsCSV(ctx context.Context, campaignID string) (*models.CSVExport, error)
	ImportParticipantsCSV(ctx context.Context, data string) (*models.ImportResult, error)

	// Admin session
	Login(username, password string) (string, error)
	CheckSession(token string) bool
}

// ReadCache stores read models between writes. *cache.CacheService implements it.
type ReadCache interface {
	Get(ctx context.Context, name string, dest interface{}) error
	Set(ctx context.Context, name string, value interface{}) error
	InvalidateTenant(ctx context.Context) error
}

// CampaignExpirer closes campaigns whose end time passed
type CampaignExpirer interface {
	ExpireCampaigns(ctx context.Context) (int, error)
}

// ExpirationServiceInterface defines the background worker closing expired campaigns
type ExpirationServiceInterface interface {
	Start()
	Stop()
	ProcessExpiredCampaigns() error
}
