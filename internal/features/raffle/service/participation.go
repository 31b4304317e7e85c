package service

import (
	"context"
	"errors"

	apperrors "spin-raffle-backend/internal/common/errors"
	"spin-raffle-backend/internal/common/logger"
	"spin-raffle-backend/internal/common/validation"
	"spin-raffle-backend/internal/features/raffle/models"
	"spin-raffle-backend/internal/features/raffle/repository"
)

const prizesCacheKey = "prizes"

func (s *raffleService) RegisterPlayer(ctx context.Context, req *models.RegisterPlayerRequest) (player *models.Player, err error) {
	defer func() { s.metrics.ObserveRegistration(outcome(err, "ok")) }()

	name := validation.NormalizeName(req.Name)
	if !validation.ValidateName(name) {
		return nil, apperrors.NewValidationError("name", "Por favor, digite seu nome.")
	}
	phone := validation.NormalizePhone(req.Phone)
	if !validation.ValidatePhone(phone) {
		return nil, apperrors.NewValidationError("phone", "Telefone inválido. Digite um número com DDD (ex: 11999887766)")
	}

	log := logger.Ctx(ctx)

	campaign, err := s.campaigns.GetLatestActive(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Warn().Err(err).Msg("Failed to load active campaign during registration")
		}
		campaign = nil
	}

	existing, err := s.players.GetByPhone(ctx, phone)
	switch {
	case err == nil:
		if campaign != nil {
			_, err := s.spins.GetByPlayerAndCampaign(ctx, existing.ID, campaign.ID)
			if err == nil {
				return nil, apperrors.New(apperrors.ErrCodeAlreadyParticipated, "Este telefone já participou desta campanha!")
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewDatabaseError("Erro ao verificar participação.", err)
			}
		}
		// Re-registration for a new campaign drops the old row and its spins.
		if err := s.players.Delete(ctx, existing.ID); err != nil {
			log.Error().Err(err).Str("player_id", existing.ID).Msg("Failed to delete previous registration")
		} else {
			log.Info().Str("player_id", existing.ID).Msg("Previous registration removed")
		}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.NewDatabaseError("Erro ao verificar cadastro.", err)
	}

	if s.config.Raffle.DeviceBlockingEnabled && req.DeviceFingerprint != "" && campaign != nil {
		if err := s.checkDevice(ctx, req.DeviceFingerprint, campaign.ID); err != nil {
			return nil, err
		}
	}

	player = &models.Player{
		TenantID:          s.tenantID(),
		Name:              name,
		Phone:             phone,
		IPAddress:         clientOrUnknown(req.IPAddress),
		UserAgent:         clientOrUnknown(req.UserAgent),
		DeviceFingerprint: optional(req.DeviceFingerprint),
		CreatedAt:         s.now(),
	}
	if err := s.players.Create(ctx, player); err != nil {
		log.Error().Err(err).Msg("Failed to insert player")
		return nil, registrationError(err)
	}

	s.invalidate(ctx)
	log.Info().Str("player_id", player.ID).Msg("Player registered")
	return player, nil
}

func (s *raffleService) checkDevice(ctx context.Context, fingerprint, campaignID string) error {
	ids, err := s.players.ListIDsByFingerprint(ctx, fingerprint)
	if err != nil {
		return apperrors.NewDatabaseError("Erro ao verificar dispositivo.", err)
	}
	if len(ids) == 0 {
		return nil
	}
	n, err := s.spins.CountByCampaignForPlayers(ctx, campaignID, ids)
	if err != nil {
		return apperrors.NewDatabaseError("Erro ao verificar dispositivo.", err)
	}
	if n > 0 {
		return apperrors.New(apperrors.ErrCodeDeviceAlreadyUsed, "Este dispositivo já foi usado para participar desta campanha!")
	}
	return nil
}

func (s *raffleService) RecordSpin(ctx context.Context, req *models.RecordSpinRequest) (result *models.SpinResult, err error) {
	defer func() {
		label := "ok"
		if result != nil && result.IsWinner {
			label = "winner"
		}
		s.metrics.ObserveSpin(outcome(err, label))
	}()

	campaign, err := s.activeCampaign(ctx)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeNoActiveCampaign) || apperrors.HasCode(err, apperrors.ErrCodeCampaignExpired) {
			return nil, apperrors.New(apperrors.ErrCodeNoActiveCampaign, "Nenhuma campanha ativa no momento.")
		}
		return nil, err
	}

	if !validation.IsUUID(req.PlayerID) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidReference, "Jogador ou prêmio inválido.")
	}
	prizeID, err := s.resolvePrize(ctx, req.PrizeID)
	if err != nil {
		return nil, err
	}

	isWinner := false
	if s.config.Raffle.InstantWinEnabled && !campaign.HasWinner() {
		isWinner, err = s.chance(s.config.Raffle.InstantWinChance)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("Instant win roll failed")
			isWinner = false
		}
	}

	spin := &models.Spin{
		TenantID:          s.tenantID(),
		PlayerID:          req.PlayerID,
		CampaignID:        campaign.ID,
		PrizeID:           prizeID,
		IsWinner:          isWinner,
		IPAddress:         clientOrUnknown(req.IPAddress),
		UserAgent:         clientOrUnknown(req.UserAgent),
		DeviceFingerprint: optional(req.DeviceFingerprint),
		SpunAt:            s.now(),
	}
	if err := s.spins.Create(ctx, spin); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("player_id", req.PlayerID).Msg("Failed to insert spin")
		return nil, s.spinError(err)
	}

	if spin.IsWinner {
		won, err := s.campaigns.SetWinnerIfEmpty(ctx, campaign.ID, spin.ID, false)
		if err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("campaign_id", campaign.ID).Msg("Failed to store instant winner")
		}
		if !won {
			if err := s.spins.SetWinnerFlag(ctx, spin.ID, false); err != nil {
				logger.Ctx(ctx).Error().Err(err).Str("spin_id", spin.ID).Msg("Failed to revert winner flag")
			}
			spin.IsWinner = false
		}
	}

	s.invalidate(ctx)
	logger.Ctx(ctx).Info().
		Str("spin_id", spin.ID).
		Str("campaign_id", campaign.ID).
		Bool("is_winner", spin.IsWinner).
		Msg("Spin recorded")

	return &models.SpinResult{Data: spin, IsWinner: spin.IsWinner}, nil
}

// resolvePrize maps the requested prize to a stored prize id. The dummy sentinel
// picks any tenant prize, creating the fallback prize for an empty catalog.
func (s *raffleService) resolvePrize(ctx context.Context, requested string) (*string, error) {
	if requested != "" && requested != models.DummyPrizeID {
		if !validation.IsUUID(requested) {
			return nil, apperrors.New(apperrors.ErrCodeInvalidReference, "Jogador ou prêmio inválido.")
		}
		return &requested, nil
	}
	return s.anyPrize(ctx), nil
}

// anyPrize returns the id of a tenant prize, or nil when none can be found or created.
func (s *raffleService) anyPrize(ctx context.Context) *string {
	log := logger.Ctx(ctx)

	prize, err := s.prizes.GetFirst(ctx)
	if err == nil {
		return &prize.ID
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.Warn().Err(err).Msg("Failed to load prize catalog")
	}

	fallback := models.NewFallbackPrize(s.tenantID())
	if err := s.prizes.Create(ctx, fallback); err != nil {
		log.Error().Err(err).Msg("CRITICAL: no prize available, recording spin without prize")
		return nil
	}
	log.Info().Str("prize_id", fallback.ID).Msg("Fallback prize created")
	return &fallback.ID
}

func (s *raffleService) GetPrizes(ctx context.Context) ([]*models.Prize, error) {
	return cachedRead(ctx, s, prizesCacheKey, func(ctx context.Context) ([]*models.Prize, error) {
		prizes, err := s.prizes.ListActive(ctx)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, "Nenhum prêmio disponível no momento.")
			}
			return nil, readError(err, "Sem permissão para visualizar os prêmios.", "Erro ao carregar os prêmios.")
		}
		return prizes, nil
	})
}

func clientOrUnknown(v string) string {
	if v == "" {
		return models.UnknownClient
	}
	return v
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
