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

const (
	drawKindManual    = "manual"
	drawKindEmergency = "emergency"
)

// winningSpin is the spin flagged for a drawn player. ghost marks a spin
// synthesized for a player who registered but never spun.
type winningSpin struct {
	spin  *models.Spin
	ghost bool
}

// DrawWinner picks one eligible player of the campaign with a uniform random index
// and stores the winning spin. A campaign that already has a winner returns it.
func (s *raffleService) DrawWinner(ctx context.Context, campaignID string) (result *models.DrawResult, err error) {
	defer func() {
		label := "drawn"
		if result != nil && result.AlreadyWon {
			label = "already_won"
		}
		s.metrics.ObserveDraw(drawKindManual, outcome(err, label))
	}()

	campaign, err := s.drawTarget(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	log := logger.Ctx(ctx).With().Str("campaign_id", campaign.ID).Logger()

	if campaign.HasWinner() {
		return s.existingWinner(ctx, campaign)
	}

	players, err := s.eligiblePlayers(ctx, campaign)
	if err != nil {
		return nil, err
	}

	idx, err := s.pick(len(players))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Erro ao sortear ganhador.")
	}
	chosen := players[idx]
	log.Info().Int("eligible", len(players)).Str("player_id", chosen.ID).Msg("Winner selected")

	won, err := s.markWinner(ctx, campaign.ID, chosen.ID, true, models.SystemDrawClient)
	if err != nil {
		return nil, err
	}

	stored, err := s.campaigns.SetWinnerIfEmpty(ctx, campaign.ID, won.spin.ID, true)
	if err != nil {
		s.revertWinner(ctx, won)
		return nil, apperrors.NewDatabaseError("Erro ao salvar ganhador.", err)
	}
	if !stored {
		// A concurrent draw stored its winner first.
		log.Warn().Str("spin_id", won.spin.ID).Msg("Draw lost the race, returning stored winner")
		s.revertWinner(ctx, won)
		s.invalidate(ctx)

		current, err := s.campaigns.GetByID(ctx, campaign.ID)
		if err != nil {
			return nil, apperrors.NewDatabaseError("Erro ao carregar ganhador.", err)
		}
		return s.existingWinner(ctx, current)
	}

	s.invalidate(ctx)
	log.Info().Str("spin_id", won.spin.ID).Bool("ghost", won.ghost).Msg("Campaign winner stored")

	return &models.DrawResult{
		Success: true,
		Winner: models.DrawWinner{
			Name:   chosen.Name,
			Phone:  chosen.Phone,
			SpinID: won.spin.ID,
		},
	}, nil
}

// drawTarget resolves the campaign to draw, falling back to the latest one.
func (s *raffleService) drawTarget(ctx context.Context, campaignID string) (*models.Campaign, error) {
	if validation.IsUUID(campaignID) {
		campaign, err := s.campaigns.GetByID(ctx, campaignID)
		if err == nil {
			return campaign, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewDatabaseError("Erro ao buscar campanha.", err)
		}
	}

	campaign, err := s.campaigns.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeCampaignNotFound, "Campanha não encontrada e nenhuma recente disponível.")
		}
		return nil, apperrors.NewDatabaseError("Erro ao buscar campanha.", err)
	}
	logger.Ctx(ctx).Info().
		Str("requested", campaignID).
		Str("campaign_id", campaign.ID).
		Msg("Drawing on the latest campaign")
	return campaign, nil
}

// existingWinner renders the stored winner of a campaign as an idempotent draw result.
func (s *raffleService) existingWinner(ctx context.Context, campaign *models.Campaign) (*models.DrawResult, error) {
	result := &models.DrawResult{
		Success:    true,
		AlreadyWon: true,
		Winner:     models.DrawWinner{Name: models.UnknownWinner, Phone: models.UnknownPhone},
	}
	if !campaign.HasWinner() {
		return result, nil
	}
	result.Winner.SpinID = *campaign.WinnerID

	details, err := s.spins.GetDetailsByIDs(ctx, []string{*campaign.WinnerID})
	if err != nil {
		return nil, apperrors.NewDatabaseError("Erro ao carregar ganhador.", err)
	}
	if len(details) > 0 && details[0].Player != nil {
		result.Winner.Name = details[0].Player.Name
		result.Winner.Phone = details[0].Player.Phone
	}
	return result, nil
}

// eligiblePlayers returns the players registered since the campaign started, or the
// players with a spin in it when the start is unknown. An empty set falls back to
// the most recent registrations.
func (s *raffleService) eligiblePlayers(ctx context.Context, campaign *models.Campaign) ([]*models.Player, error) {
	var (
		players []*models.Player
		err     error
	)
	if campaign.StartedAt != nil {
		players, err = s.players.ListCreatedSince(ctx, *campaign.StartedAt, 0, 0)
	} else {
		var ids []string
		ids, err = s.spins.ListPlayerIDsByCampaign(ctx, campaign.ID)
		if err == nil && len(ids) > 0 {
			players, err = s.players.ListByIDs(ctx, ids)
		}
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("Erro ao buscar participantes.", err)
	}
	if len(players) > 0 {
		return players, nil
	}

	limit := s.config.Raffle.RecentFallbackLimit
	logger.Ctx(ctx).Warn().
		Str("campaign_id", campaign.ID).
		Int("limit", limit).
		Msg("No eligible players in campaign window, using most recent registrations")

	players, err = s.players.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError("Erro ao buscar participantes.", err)
	}
	if len(players) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeNoEligiblePlayers, "Nenhum participante elegível nesta campanha (nem recentes)")
	}
	return players, nil
}

// markWinner flags the player's spin in the campaign, creating one for a ghost participant.
// withPrize attaches the first catalog prize to a created spin when one exists.
func (s *raffleService) markWinner(ctx context.Context, campaignID, playerID string, withPrize bool, client string) (*winningSpin, error) {
	spin, err := s.spins.GetByPlayerAndCampaign(ctx, playerID, campaignID)
	if err == nil {
		if err := s.spins.SetWinnerFlag(ctx, spin.ID, true); err != nil {
			return nil, apperrors.NewDatabaseError("Erro técnico ao registrar ganhador", err)
		}
		spin.IsWinner = true
		return &winningSpin{spin: spin}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewDatabaseError("Erro técnico ao registrar ganhador", err)
	}

	var prizeID *string
	if withPrize {
		prizeID = s.firstPrize(ctx)
	}
	ghost := &models.Spin{
		TenantID:   s.tenantID(),
		PlayerID:   playerID,
		CampaignID: campaignID,
		PrizeID:    prizeID,
		IsWinner:   true,
		IPAddress:  client,
		UserAgent:  client,
		SpunAt:     s.now(),
	}
	if err := s.spins.Create(ctx, ghost); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("player_id", playerID).Msg("Failed to create winning spin")
		return nil, apperrors.NewDatabaseError("Erro técnico ao registrar ganhador", err)
	}
	logger.Ctx(ctx).Info().Str("player_id", playerID).Str("spin_id", ghost.ID).Msg("Winning spin created for ghost participant")
	return &winningSpin{spin: ghost, ghost: true}, nil
}

// firstPrize returns the id of any catalog prize, or nil when the catalog is empty.
func (s *raffleService) firstPrize(ctx context.Context) *string {
	prize, err := s.prizes.GetFirst(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Ctx(ctx).Warn().Err(err).Msg("Failed to load prize catalog")
		}
		return nil
	}
	return &prize.ID
}

// revertWinner undoes markWinner after the campaign winner could not be stored.
func (s *raffleService) revertWinner(ctx context.Context, won *winningSpin) {
	var err error
	if won.ghost {
		err = s.spins.Delete(ctx, won.spin.ID)
	} else {
		err = s.spins.SetWinnerFlag(ctx, won.spin.ID, false)
	}
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("spin_id", won.spin.ID).Msg("Failed to revert winning spin")
	}
}

// EmergencyDraw draws among the most recent registrations of the latest campaign
// window and overwrites its winner, creating a closed campaign when none exists.
func (s *raffleService) EmergencyDraw(ctx context.Context) (result *models.DrawResult, err error) {
	defer func() { s.metrics.ObserveDraw(drawKindEmergency, outcome(err, "drawn")) }()

	latest, err := s.campaigns.GetLatest(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewDatabaseError("Erro ao buscar campanha.", err)
		}
		latest = nil
	}

	limit := s.config.Raffle.EmergencyDrawLimit
	var players []*models.Player
	if latest != nil && latest.StartedAt != nil {
		players, err = s.players.ListCreatedSince(ctx, *latest.StartedAt, limit, 0)
	} else {
		players, err = s.players.ListRecent(ctx, limit)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("Erro ao buscar participantes.", err)
	}
	if len(players) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeNoEligiblePlayers, "Nenhum participante elegível encontrado para esta campanha!")
	}

	idx, err := s.pick(len(players))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Erro ao sortear ganhador.")
	}
	chosen := players[idx]

	target := latest
	if target == nil {
		now := s.now()
		target = &models.Campaign{
			TenantID:  s.tenantID(),
			Name:      models.EmergencyCampaignName,
			IsActive:  false,
			StartedAt: &now,
			EndsAt:    &now,
			CreatedAt: now,
		}
		if err := s.campaigns.Create(ctx, target); err != nil {
			return nil, apperrors.NewDatabaseError("Erro ao criar campanha de emergência: "+storageMessage(err), err)
		}
	}

	won, err := s.markWinner(ctx, target.ID, chosen.ID, false, models.ManualDrawClient)
	if err != nil {
		return nil, err
	}
	if err := s.campaigns.SetWinner(ctx, target.ID, won.spin.ID); err != nil {
		s.revertWinner(ctx, won)
		return nil, apperrors.NewDatabaseError("Erro ao salvar ganhador.", err)
	}

	s.invalidate(ctx)
	logger.Ctx(ctx).Warn().
		Str("campaign_id", target.ID).
		Str("player_id", chosen.ID).
		Str("spin_id", won.spin.ID).
		Int("eligible", len(players)).
		Msg("Emergency draw stored winner")

	return &models.DrawResult{
		Success: true,
		Winner: models.DrawWinner{
			Name:   chosen.Name,
			Phone:  chosen.Phone,
			SpinID: won.spin.ID,
		},
	}, nil
}
