package service

import (
	"context"
	"errors"

	apperrors "spin-raffle-backend/internal/common/errors"
	"spin-raffle-backend/internal/common/logger"
	"spin-raffle-backend/internal/features/raffle/models"
	"spin-raffle-backend/internal/features/raffle/repository"
)

// activeCampaign loads the latest active campaign and closes it when it already ended.
func (s *raffleService) activeCampaign(ctx context.Context) (*models.Campaign, error) {
	campaign, err := s.campaigns.GetLatestActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNoActiveCampaign, "Nenhuma campanha ativa")
		}
		return nil, apperrors.NewDatabaseError("Erro ao buscar campanha ativa.", err)
	}

	if campaign.IsExpired(s.now()) {
		s.expire(ctx, campaign)
		return nil, apperrors.New(apperrors.ErrCodeCampaignExpired, "Campanha expirada")
	}
	return campaign, nil
}

// expire closes a campaign found expired on a read path.
func (s *raffleService) expire(ctx context.Context, campaign *models.Campaign) {
	if err := s.campaigns.Deactivate(ctx, campaign.ID); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("campaign_id", campaign.ID).Msg("Failed to deactivate expired campaign")
		return
	}
	campaign.IsActive = false
	s.metrics.ObserveExpirations(1)
	s.invalidate(ctx)
	logger.Ctx(ctx).Info().Str("campaign_id", campaign.ID).Msg("Campaign expired")
}

func (s *raffleService) GetActiveCampaign(ctx context.Context) (*models.Campaign, error) {
	return s.activeCampaign(ctx)
}

// ActivateCampaign always starts a new campaign; earlier rows are left as they are.
func (s *raffleService) ActivateCampaign(ctx context.Context) (*models.Campaign, error) {
	campaign := models.NewCampaign(s.tenantID(), s.now(), s.config.Raffle.CampaignDuration, s.loc)
	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, apperrors.NewDatabaseError("Erro ao criar campanha: "+storageMessage(err), err)
	}

	s.invalidate(ctx)
	logger.Ctx(ctx).Info().
		Str("campaign_id", campaign.ID).
		Str("name", campaign.Name).
		Time("ends_at", *campaign.EndsAt).
		Msg("Campaign activated")
	return campaign, nil
}

func (s *raffleService) DeactivateCampaign(ctx context.Context, clear bool) (*models.DeactivateResult, error) {
	campaign, err := s.campaigns.GetLatestActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNoActiveCampaign, "Nenhuma campanha ativa para desativar")
		}
		return nil, apperrors.NewDatabaseError("Erro ao desativar campanha: "+storageMessage(err), err)
	}

	if err := s.campaigns.Deactivate(ctx, campaign.ID); err != nil {
		return nil, apperrors.NewDatabaseError("Erro ao desativar campanha: "+storageMessage(err), err)
	}
	s.invalidate(ctx)
	logger.Ctx(ctx).Info().Str("campaign_id", campaign.ID).Bool("clear", clear).Msg("Campaign deactivated")

	if clear {
		if _, err := s.ClearParticipants(ctx); err != nil {
			msg := err.Error()
			if appErr, ok := apperrors.AsAppError(err); ok {
				msg = appErr.Message
			}
			return &models.DeactivateResult{
				Success: true,
				Message: "Campanha desativada, mas houve erro ao limpar participantes: " + msg,
			}, nil
		}
		return &models.DeactivateResult{
			Success: true,
			Message: "Campanha desativada e participantes limpos com sucesso!",
			Cleared: true,
		}, nil
	}

	updated, err := s.campaigns.GetByID(ctx, campaign.ID)
	if err != nil {
		return &models.DeactivateResult{Success: true, Message: "Campanha desativada com sucesso"}, nil
	}
	return &models.DeactivateResult{Success: true, Data: updated}, nil
}

// ExpireCampaigns closes every active campaign whose end time passed.
func (s *raffleService) ExpireCampaigns(ctx context.Context) (int, error) {
	ids, err := s.campaigns.DeactivateExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	s.metrics.ObserveExpirations(len(ids))
	s.invalidate(ctx)
	logger.Ctx(ctx).Info().Strs("campaign_ids", ids).Msg("Expired campaigns closed")
	return len(ids), nil
}
