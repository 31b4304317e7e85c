package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "spin-raffle-backend/internal/common/errors"
	"spin-raffle-backend/internal/common/validation"
	"spin-raffle-backend/internal/features/raffle/models"
	"spin-raffle-backend/internal/features/raffle/repository"
)

const allWinnersCacheKey = "winners:all"

// GetSpinHistory lists the participants of the current campaign. Only an active
// campaign has a visible list; every other state yields an empty page.
func (s *raffleService) GetSpinHistory(ctx context.Context, limit, offset int) (*models.HistoryPage, error) {
	limit, offset = validation.NormalizePage(limit, offset)
	key := fmt.Sprintf("history:%d:%d", limit, offset)

	return cachedRead(ctx, s, key, func(ctx context.Context) (*models.HistoryPage, error) {
		empty := &models.HistoryPage{Data: []models.HistoryEntry{}, Total: 0}

		campaign, err := s.campaigns.GetLatest(ctx)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return empty, nil
			}
			return nil, readError(err, "Sem permissão para visualizar o histórico.", "Erro ao carregar o histórico.")
		}
		if campaign.State() != models.CampaignStateActive || campaign.IsExpired(s.now()) {
			return empty, nil
		}

		since := campaignStart(campaign)
		players, err := s.players.ListCreatedSince(ctx, since, limit, offset)
		if err != nil {
			return nil, readError(err, "Sem permissão para visualizar o histórico.", "Erro ao carregar o histórico.")
		}
		total, err := s.players.CountCreatedSince(ctx, since)
		if err != nil {
			return nil, readError(err, "Sem permissão para visualizar o histórico.", "Erro ao carregar o histórico.")
		}
		if len(players) == 0 {
			empty.Total = total
			return empty, nil
		}

		ids := make([]string, len(players))
		for i, p := range players {
			ids[i] = p.ID
		}
		spins, err := s.spins.ListDetailsByPlayers(ctx, ids)
		if err != nil {
			return nil, readError(err, "Sem permissão para visualizar o histórico.", "Erro ao carregar o histórico.")
		}

		// spins are newest first, so the first one seen per player wins
		latest := make(map[string]*models.SpinDetails, len(spins))
		for _, sp := range spins {
			if _, ok := latest[sp.PlayerID]; !ok {
				latest[sp.PlayerID] = sp
			}
		}

		entries := make([]models.HistoryEntry, 0, len(players))
		for _, p := range players {
			contact := models.PlayerContact{ID: p.ID, Name: p.Name, Phone: p.Phone}
			if sp, ok := latest[p.ID]; ok {
				entries = append(entries, models.HistoryEntry{
					ID:       sp.ID,
					SpunAt:   sp.SpunAt,
					IsWinner: sp.IsWinner,
					Player:   contact,
					Prize:    sp.Prize,
					HasSpun:  true,
				})
				continue
			}
			entries = append(entries, models.HistoryEntry{
				ID:      p.ID,
				SpunAt:  p.CreatedAt,
				Player:  contact,
				Prize:   &models.PrizeSummary{Name: models.NoSpinPrizeName},
				HasSpun: false,
			})
		}

		return &models.HistoryPage{Data: entries, Total: total}, nil
	})
}

// GetCampaignStats summarises the latest campaign, closing it first when it ended.
func (s *raffleService) GetCampaignStats(ctx context.Context) (*models.CampaignStats, error) {
	campaign, err := s.campaigns.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &models.CampaignStats{State: models.CampaignStateNone}, nil
		}
		return nil, readError(err, "Sem permissão para visualizar as estatísticas.", "Erro ao carregar estatísticas.")
	}

	if campaign.IsExpired(s.now()) {
		s.expire(ctx, campaign)
	}

	stats := &models.CampaignStats{Campaign: campaign, State: campaign.State()}

	if campaign.HasWinner() {
		winners, err := s.spins.GetDetailsByIDs(ctx, []string{*campaign.WinnerID})
		if err != nil {
			return nil, readError(err, "Sem permissão para visualizar as estatísticas.", "Erro ao carregar estatísticas.")
		}
		if len(winners) > 0 {
			stats.Winner = winners[0]
		}
	}

	if campaign.StartedAt != nil {
		stats.TotalSpins, err = s.players.CountCreatedSince(ctx, *campaign.StartedAt)
	} else {
		stats.TotalSpins, err = s.spins.CountByCampaign(ctx, campaign.ID)
	}
	if err != nil {
		return nil, readError(err, "Sem permissão para visualizar as estatísticas.", "Erro ao carregar estatísticas.")
	}

	return stats, nil
}

// GetPastWinners pages the winners gallery, newest campaign first.
func (s *raffleService) GetPastWinners(ctx context.Context, limit, offset int) (*models.PastWinnersPage, error) {
	limit, offset = validation.NormalizePage(limit, offset)
	key := fmt.Sprintf("winners:%d:%d", limit, offset)

	return cachedRead(ctx, s, key, func(ctx context.Context) (*models.PastWinnersPage, error) {
		campaigns, total, err := s.campaigns.ListWithWinner(ctx, limit, offset)
		if err != nil {
			return nil, apperrors.NewDatabaseError("Erro ao carregar campanhas anteriores.", err)
		}

		spinIDs := make([]string, 0, len(campaigns))
		for _, c := range campaigns {
			spinIDs = append(spinIDs, *c.WinnerID)
		}
		byID := make(map[string]*models.SpinDetails, len(spinIDs))
		if len(spinIDs) > 0 {
			details, err := s.spins.GetDetailsByIDs(ctx, spinIDs)
			if err != nil {
				return nil, apperrors.NewDatabaseError("Erro ao carregar detalhes dos ganhadores.", err)
			}
			for _, d := range details {
				byID[d.ID] = d
			}
		}

		data := make([]models.PastWinner, 0, len(campaigns))
		for _, c := range campaigns {
			winner := models.WinnerSummary{
				Name:  models.UnknownWinner,
				Phone: models.UnknownPhone,
				Prize: models.DefaultWinnerPrize,
			}
			if d, ok := byID[*c.WinnerID]; ok {
				if d.Player != nil {
					winner.Name = d.Player.Name
					winner.Phone = d.Player.Phone
				}
				if d.Prize != nil && d.Prize.Name != "" {
					winner.Prize = d.Prize.Name
				}
			}

			date := c.StartedAt
			if date == nil {
				date = c.EndsAt
			}
			data = append(data, models.PastWinner{
				ID:           c.ID,
				CampaignName: c.Name,
				Date:         date,
				Winner:       winner,
			})
		}

		return &models.PastWinnersPage{Data: data, Total: total}, nil
	})
}

// GetAllWinners pairs every campaign with its winning spin. Campaigns without a
// winner are left out.
func (s *raffleService) GetAllWinners(ctx context.Context) ([]*models.CampaignWinner, error) {
	return cachedRead(ctx, s, allWinnersCacheKey, func(ctx context.Context) ([]*models.CampaignWinner, error) {
		campaigns, err := s.campaigns.ListAll(ctx)
		if err != nil {
			return nil, apperrors.NewDatabaseError("Erro ao carregar campanhas.", err)
		}
		total, err := s.players.Count(ctx)
		if err != nil {
			return nil, apperrors.NewDatabaseError("Erro ao contar participantes.", err)
		}

		out := make([]*models.CampaignWinner, 0, len(campaigns))
		for _, c := range campaigns {
			winner, err := s.spins.GetWinnerByCampaign(ctx, c.ID)
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, apperrors.NewDatabaseError("Erro ao carregar detalhes dos ganhadores.", err)
			}
			out = append(out, &models.CampaignWinner{
				Campaign:          c,
				Winner:            winner,
				TotalParticipants: total,
			})
		}
		return out, nil
	})
}

// campaignStart is the registration cut-off of a campaign.
func campaignStart(c *models.Campaign) time.Time {
	if c.StartedAt != nil {
		return *c.StartedAt
	}
	return c.CreatedAt
}
