package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "default", cfg.TenantID)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "authenticated", cfg.Admin.Token)
	assert.Equal(t, time.Hour, cfg.Raffle.CampaignDuration)
	assert.False(t, cfg.Raffle.InstantWinEnabled)
	assert.Equal(t, 0.02, cfg.Raffle.InstantWinChance)
	assert.False(t, cfg.Raffle.DeviceBlockingEnabled)
	assert.Equal(t, 50, cfg.Raffle.RecentFallbackLimit)
	assert.Equal(t, 1000, cfg.Raffle.EmergencyDrawLimit)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("TENANT_ID", "loja-centro")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("CAMPAIGN_DURATION", "30m")
	t.Setenv("INSTANT_WIN_ENABLED", "true")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PASSWORD", "s3cr3t")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "loja-centro", cfg.TenantID)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Raffle.CampaignDuration)
	assert.True(t, cfg.Raffle.InstantWinEnabled)
	assert.Equal(t, "postgres://raffle:s3cr3t@db:5432/raffle?sslmode=disable", cfg.Postgres.GetDSN())
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidChance(t *testing.T) {
	t.Setenv("INSTANT_WIN_CHANCE", "1.5")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_DrawLimitsMustBePositive(t *testing.T) {
	for _, tc := range []struct{ key, value string }{
		{"DRAW_RECENT_FALLBACK", "0"},
		{"EMERGENCY_DRAW_LIMIT", "0"},
		{"EMERGENCY_DRAW_LIMIT", "-5"},
	} {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}

func TestRaffleConfig_Location(t *testing.T) {
	r := RaffleConfig{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, r.Location())
}
