package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCampaign_State(t *testing.T) {
	winner := "spin-1"
	empty := ""

	var none *Campaign
	assert.Equal(t, CampaignStateNone, none.State())
	assert.Equal(t, CampaignStateActive, (&Campaign{IsActive: true}).State())
	assert.Equal(t, CampaignStateActive, (&Campaign{IsActive: true, WinnerID: &winner}).State())
	assert.Equal(t, CampaignStateClosed, (&Campaign{}).State())
	assert.Equal(t, CampaignStateClosed, (&Campaign{WinnerID: &empty}).State())
	assert.Equal(t, CampaignStateDrawn, (&Campaign{WinnerID: &winner}).State())
}

func TestCampaign_IsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.True(t, (&Campaign{IsActive: true, EndsAt: &past}).IsExpired(now))
	assert.False(t, (&Campaign{IsActive: true, EndsAt: &future}).IsExpired(now))
	assert.False(t, (&Campaign{IsActive: true}).IsExpired(now))
	assert.False(t, (&Campaign{IsActive: false, EndsAt: &past}).IsExpired(now))
}

func TestNewCampaign(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.FixedZone("BRT", -3*60*60)
	}
	now := time.Date(2026, 3, 1, 15, 4, 5, 0, time.UTC)

	c := NewCampaign("default", now, time.Hour, loc)

	assert.Equal(t, "Campanha 01/03/2026, 12:04:05", c.Name)
	assert.True(t, c.IsActive)
	assert.Equal(t, now, *c.StartedAt)
	assert.Equal(t, now.Add(time.Hour), *c.EndsAt)
	assert.Nil(t, c.WinnerID)
}
