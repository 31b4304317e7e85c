package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "spin-raffle-backend/internal/common/errors"
	"spin-raffle-backend/internal/common/logger"
	"spin-raffle-backend/internal/common/validation"
	"spin-raffle-backend/internal/features/raffle/models"
	"spin-raffle-backend/internal/features/raffle/repository"
	"spin-raffle-backend/internal/utils/random"
)

// ClearParticipants wipes every spin and player of the tenant and closes all campaigns.
func (s *raffleService) ClearParticipants(ctx context.Context) (*models.MessageResult, error) {
	log := logger.Ctx(ctx)

	if err := s.campaigns.ClearWinners(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to clear campaign winners")
	}
	if err := s.spins.DeleteAll(ctx); err != nil {
		s.invalidate(ctx)
		return nil, apperrors.NewDatabaseError("Erro ao limpar giros: "+storageMessage(err), err)
	}
	if err := s.players.DeleteAll(ctx); err != nil {
		s.invalidate(ctx)
		return nil, apperrors.NewDatabaseError("Erro ao limpar jogadores: "+storageMessage(err), err)
	}
	if err := s.campaigns.DeactivateAll(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to deactivate campaigns")
	}

	s.invalidate(ctx)
	log.Warn().Msg("All participants removed")
	return &models.MessageResult{Success: true, Message: "Todos os participantes foram removidos com sucesso!"}, nil
}

func (s *raffleService) DeleteParticipant(ctx context.Context, playerID string) (*models.MessageResult, error) {
	if !validation.IsUUID(playerID) {
		return nil, apperrors.NewValidationError("id", "ID de participante inválido.")
	}

	if err := s.spins.DeleteByPlayer(ctx, playerID); err != nil {
		return nil, apperrors.NewDatabaseError("Erro ao deletar giros: "+storageMessage(err), err)
	}
	if err := s.players.Delete(ctx, playerID); err != nil {
		return nil, apperrors.NewDatabaseError("Erro ao deletar participante: "+storageMessage(err), err)
	}

	s.invalidate(ctx)
	logger.Ctx(ctx).Info().Str("player_id", playerID).Msg("Participant removed")
	return &models.MessageResult{Success: true, Message: "Participante removido com sucesso!"}, nil
}

// GenerateTestParticipants registers the fixed test names with random mobile numbers.
func (s *raffleService) GenerateTestParticipants(ctx context.Context) (*models.MessageResult, error) {
	created := 0
	for _, name := range models.TestParticipantNames {
		digits, err := random.Digits(8)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Erro ao gerar telefone de teste.")
		}
		player := &models.Player{
			TenantID:  s.tenantID(),
			Name:      name,
			Phone:     fmt.Sprintf("(11) 9%s", digits),
			IPAddress: models.TestGeneratorIP,
			UserAgent: models.TestGeneratorUserAgent,
			CreatedAt: s.now(),
		}
		if err := s.players.Create(ctx, player); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("name", name).Msg("Failed to create test participant")
			continue
		}
		created++
	}

	s.invalidate(ctx)
	logger.Ctx(ctx).Info().Int("created", created).Msg("Test participants generated")
	return &models.MessageResult{
		Success: true,
		Message: fmt.Sprintf("%d participantes de teste gerados com sucesso!", created),
	}, nil
}

// ExportParticipantsCSV renders the spins of a campaign, the latest one by default.
func (s *raffleService) ExportParticipantsCSV(ctx context.Context, campaignID string) (*models.CSVExport, error) {
	var (
		campaign *models.Campaign
		err      error
	)
	if campaignID != "" {
		if !validation.IsUUID(campaignID) {
			return nil, apperrors.New(apperrors.ErrCodeCampaignNotFound, "Campanha não encontrada")
		}
		campaign, err = s.campaigns.GetByID(ctx, campaignID)
	} else {
		campaign, err = s.campaigns.GetLatest(ctx)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if campaignID != "" {
				return nil, apperrors.New(apperrors.ErrCodeCampaignNotFound, "Campanha não encontrada")
			}
			return nil, apperrors.New(apperrors.ErrCodeCampaignNotFound, "Nenhuma campanha encontrada")
		}
		return nil, apperrors.NewDatabaseError("Erro ao buscar campanha: "+storageMessage(err), err)
	}

	spins, err := s.spins.ListDetailsByCampaign(ctx, campaign.ID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("Erro ao buscar participantes: "+storageMessage(err), err)
	}
	if len(spins) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeNoParticipants, "Nenhum participante nesta campanha")
	}

	logger.Ctx(ctx).Info().Str("campaign_id", campaign.ID).Int("rows", len(spins)).Msg("Participants exported")
	return &models.CSVExport{
		CSV:               formatParticipantsCSV(spins, s.loc),
		TotalParticipants: len(spins),
	}, nil
}

// ImportParticipantsCSV restores players from an exported file. Each line is
// inserted on its own; failures are counted and never abort the import.
func (s *raffleService) ImportParticipantsCSV(ctx context.Context, data string) (*models.ImportResult, error) {
	if strings.TrimSpace(data) == "" {
		return nil, apperrors.NewValidationError("csv", "Nenhum dado CSV enviado.")
	}

	rows, skipped := parseParticipantsCSV(data)
	restored, failed := 0, 0
	for _, row := range rows {
		player := &models.Player{
			TenantID:  s.tenantID(),
			Name:      row.Name,
			Phone:     row.Phone,
			IPAddress: models.TestGeneratorIP,
			UserAgent: models.CSVRestoreUserAgent,
			CreatedAt: s.now(),
		}
		if err := s.players.Create(ctx, player); err != nil {
			logger.Ctx(ctx).Debug().Err(err).Str("phone", row.Phone).Msg("Failed to restore participant")
			failed++
			continue
		}
		restored++
	}

	s.invalidate(ctx)
	logger.Ctx(ctx).Info().
		Int("restored", restored).
		Int("failed", failed).
		Int("skipped", skipped).
		Msg("Participants imported")

	return &models.ImportResult{
		Success:  true,
		Message:  fmt.Sprintf("%d participantes restaurados com sucesso! (%d falhas/duplicados)", restored, failed),
		Restored: restored,
		Failed:   failed,
	}, nil
}
