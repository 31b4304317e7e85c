package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "spin-raffle-backend/internal/common/errors"
)

type stubExpirer struct {
	calls    atomic.Int32
	failures int32
	idle     bool
}

func (s *stubExpirer) ExpireCampaigns(context.Context) (int, error) {
	n := s.calls.Add(1)
	if n <= s.failures {
		return 0, errors.New("database unavailable")
	}
	if s.idle {
		return 0, nil
	}
	return 1, nil
}

func TestExpirationService_NothingToExpire(t *testing.T) {
	expirer := &stubExpirer{idle: true}
	svc := NewExpirationService(expirer, time.Minute)
	defer svc.Stop()

	require.NoError(t, svc.ProcessExpiredCampaigns())
	assert.Equal(t, int32(1), expirer.calls.Load())
}

func TestExpirationService_ProcessRetries(t *testing.T) {
	expirer := &stubExpirer{failures: 1}
	svc := NewExpirationService(expirer, time.Minute)
	defer svc.Stop()

	require.NoError(t, svc.ProcessExpiredCampaigns())
	assert.Equal(t, int32(2), expirer.calls.Load())
}

func TestExpirationService_StopInterruptsRetry(t *testing.T) {
	expirer := &stubExpirer{failures: maxRetries}
	svc := NewExpirationService(expirer, time.Minute)
	svc.Stop()

	err := svc.ProcessExpiredCampaigns()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExpirationService_StartRunsOnTicker(t *testing.T) {
	expirer := &stubExpirer{}
	svc := NewExpirationService(expirer, 10*time.Millisecond)
	svc.Start()

	assert.Eventually(t, func() bool { return expirer.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	svc.Stop()
}

func TestExpirationService_DisabledInterval(t *testing.T) {
	expirer := &stubExpirer{}
	svc := NewExpirationService(expirer, 0)
	svc.Start()
	svc.Stop()
	assert.Zero(t, expirer.calls.Load())
}

func TestExpirationService_ClosesCampaigns(t *testing.T) {
	f := newFixture(t)
	f.activate(t)
	f.clock.Advance(2 * time.Hour)

	svc := NewExpirationService(f.svc, time.Minute)
	defer svc.Stop()
	require.NoError(t, svc.ProcessExpiredCampaigns())

	_, err := f.svc.GetActiveCampaign(context.Background())
	requireCode(t, err, apperrors.ErrCodeNoActiveCampaign)
}
