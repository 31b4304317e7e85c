package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spin-raffle-backend/internal/features/raffle/models"
	"spin-raffle-backend/internal/features/raffle/repository"
)

var t0 = time.Date(2026, 5, 10, 14, 0, 0, 0, time.UTC)

func seedCampaign(t *testing.T, store *repository.Store, at time.Time) *models.Campaign {
	t.Helper()
	c := models.NewCampaign("", at, time.Hour, time.UTC)
	require.NoError(t, store.Campaigns.Create(context.Background(), c))
	return c
}

func seedPlayer(t *testing.T, store *repository.Store, name, phone string, at time.Time) *models.Player {
	t.Helper()
	p := &models.Player{Name: name, Phone: phone, IPAddress: "10.0.0.1", UserAgent: "test", CreatedAt: at}
	require.NoError(t, store.Players.Create(context.Background(), p))
	return p
}

func TestPlayers_UniquePhone(t *testing.T) {
	store := New("default")
	seedPlayer(t, store, "Ana", "11999990000", t0)

	err := store.Players.Create(context.Background(), &models.Player{Name: "Outra", Phone: "11999990000"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrDuplicate))

	se, ok := repository.AsStorageError(err)
	require.True(t, ok)
	assert.True(t, se.Mentions("phone"))
}

func TestPlayers_NotNull(t *testing.T) {
	store := New("default")

	err := store.Players.Create(context.Background(), &models.Player{Name: " ", Phone: "11999990000"})
	assert.True(t, errors.Is(err, repository.ErrNotNull))
}

func TestPlayers_ListCreatedSince(t *testing.T) {
	ctx := context.Background()
	store := New("default")
	seedPlayer(t, store, "Antes", "1100", t0.Add(-time.Minute))
	p1 := seedPlayer(t, store, "P1", "1101", t0)
	p2 := seedPlayer(t, store, "P2", "1102", t0.Add(time.Minute))

	players, err := store.Players.ListCreatedSince(ctx, t0, 10, 0)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, p2.ID, players[0].ID)
	assert.Equal(t, p1.ID, players[1].ID)

	paged, err := store.Players.ListCreatedSince(ctx, t0, 1, 1)
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, p1.ID, paged[0].ID)

	n, err := store.Players.CountCreatedSince(ctx, t0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSpins_UniquePerCampaignAndForeignKeys(t *testing.T) {
	ctx := context.Background()
	store := New("default")
	c := seedCampaign(t, store, t0)
	p := seedPlayer(t, store, "P1", "1101", t0)

	require.NoError(t, store.Spins.Create(ctx, &models.Spin{PlayerID: p.ID, CampaignID: c.ID}))

	err := store.Spins.Create(ctx, &models.Spin{PlayerID: p.ID, CampaignID: c.ID})
	assert.True(t, errors.Is(err, repository.ErrDuplicate))

	err = store.Spins.Create(ctx, &models.Spin{PlayerID: "missing", CampaignID: c.ID})
	assert.True(t, errors.Is(err, repository.ErrForeignKey))
}

func TestPlayers_DeleteCascadesSpinsAndWinner(t *testing.T) {
	ctx := context.Background()
	store := New("default")
	c := seedCampaign(t, store, t0)
	p := seedPlayer(t, store, "P1", "1101", t0)
	sp := &models.Spin{PlayerID: p.ID, CampaignID: c.ID, IsWinner: true}
	require.NoError(t, store.Spins.Create(ctx, sp))

	stored, err := store.Campaigns.SetWinnerIfEmpty(ctx, c.ID, sp.ID, true)
	require.NoError(t, err)
	require.True(t, stored)

	require.NoError(t, store.Players.Delete(ctx, p.ID))

	_, err = store.Spins.GetByPlayerAndCampaign(ctx, p.ID, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := store.Campaigns.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.WinnerID)
	assert.False(t, got.IsActive)
}

func TestCampaigns_SetWinnerIfEmpty(t *testing.T) {
	ctx := context.Background()
	store := New("default")
	c := seedCampaign(t, store, t0)
	p1 := seedPlayer(t, store, "P1", "1101", t0)
	p2 := seedPlayer(t, store, "P2", "1102", t0)
	s1 := &models.Spin{PlayerID: p1.ID, CampaignID: c.ID}
	s2 := &models.Spin{PlayerID: p2.ID, CampaignID: c.ID}
	require.NoError(t, store.Spins.Create(ctx, s1))
	require.NoError(t, store.Spins.Create(ctx, s2))

	stored, err := store.Campaigns.SetWinnerIfEmpty(ctx, c.ID, s1.ID, false)
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = store.Campaigns.SetWinnerIfEmpty(ctx, c.ID, s2.ID, true)
	require.NoError(t, err)
	assert.False(t, stored)

	got, err := store.Campaigns.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, s1.ID, *got.WinnerID)
	assert.True(t, got.IsActive)
}

func TestCampaigns_LatestAndExpired(t *testing.T) {
	ctx := context.Background()
	store := New("default")
	old := seedCampaign(t, store, t0)
	newer := seedCampaign(t, store, t0.Add(2*time.Hour))

	latest, err := store.Campaigns.GetLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)

	ids, err := store.Campaigns.DeactivateExpired(ctx, t0.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{old.ID}, ids)

	active, err := store.Campaigns.GetLatestActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, active.ID)
}

func TestPrizes_FirstAndOrder(t *testing.T) {
	ctx := context.Background()
	store := New("default")

	_, err := store.Prizes.GetFirst(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	fallback := models.NewFallbackPrize("")
	require.NoError(t, store.Prizes.Create(ctx, fallback))

	first, err := store.Prizes.GetFirst(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.FallbackPrizeName, first.Name)
	assert.Equal(t, "default", first.TenantID)
}
