package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"spin-raffle-backend/internal/common/logger"
)

const (
	maxRetries        = 3
	retryInterval     = time.Second
	processingTimeout = 30 * time.Second
)

// ExpirationService closes campaigns whose end time passed, so a campaign ends on
// time even when nobody reads it.
type ExpirationService struct {
	ctx      context.Context
	cancel   context.CancelFunc
	expirer  CampaignExpirer
	interval time.Duration
	wg       sync.WaitGroup
}

var _ ExpirationServiceInterface = (*ExpirationService)(nil)

func NewExpirationService(expirer CampaignExpirer, interval time.Duration) *ExpirationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ExpirationService{
		ctx:      ctx,
		cancel:   cancel,
		expirer:  expirer,
		interval: interval,
	}
}

func (s *ExpirationService) Start() {
	if s.interval <= 0 {
		logger.Info().Msg("Expiration service disabled")
		return
	}

	logger.Info().Dur("interval", s.interval).Msg("Starting expiration service")
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.ProcessExpiredCampaigns(); err != nil {
					logger.Error().Err(err).Msg("Error processing expired campaigns")
				}
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

func (s *ExpirationService) Stop() {
	logger.Info().Msg("Stopping expiration service")
	s.cancel()
	s.wg.Wait()
	logger.Info().Msg("Expiration service stopped")
}

func (s *ExpirationService) ProcessExpiredCampaigns() error {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		ctx, cancel := context.WithTimeout(s.ctx, processingTimeout)
		n, err := s.expirer.ExpireCampaigns(ctx)
		cancel()
		if err == nil {
			if n > 0 {
				logger.Info().Int("closed", n).Msg("Expired campaigns processed")
			} else {
				logger.Debug().Msg("No expired campaigns")
			}
			return nil
		}

		lastErr = err
		logger.Warn().Err(err).Int("attempt", attempt).Msg("Expiration attempt failed")

		select {
		case <-time.After(retryInterval * time.Duration(attempt)):
		case <-s.ctx.Done():
			return s.ctx.Err()
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}
