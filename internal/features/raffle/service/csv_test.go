package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"spin-raffle-backend/internal/features/raffle/models"
)

func TestFormatParticipantsCSV(t *testing.T) {
	at := time.Date(2026, 3, 1, 15, 4, 5, 0, time.UTC)
	spins := []*models.SpinDetails{
		{Spin: models.Spin{SpunAt: at, IsWinner: true}, Player: &models.PlayerContact{Name: "Ana", Phone: "11999990000"}},
		{Spin: models.Spin{SpunAt: at}},
	}

	out := formatParticipantsCSV(spins, time.FixedZone("BRT", -3*60*60))

	assert.True(t, strings.HasPrefix(out, "\ufeff"))
	assert.False(t, strings.HasSuffix(out, "\n"))
	lines := strings.Split(strings.TrimPrefix(out, "\ufeff"), "\n")
	assert.Equal(t, []string{
		"Nome,Telefone,Data/Hora,Ganhou",
		`"Ana","11999990000","01/03/2026, 12:04:05","Sim"`,
		`"N/A","N/A","01/03/2026, 12:04:05","Não"`,
	}, lines)
}

func TestParseParticipantsCSV(t *testing.T) {
	data := "\ufeffNome,Telefone,Data/Hora,Ganhou\r\n" +
		"\"Ana\",\"11999990000\",\"01/03/2026, 12:04:05\",\"Sim\"\r\n" +
		"   \n" +
		"Bia,11988880001\n" +
		"\"Solo\"\n" +
		"\" Caio \",\"(11) 97777-0002\""

	rows, skipped := parseParticipantsCSV(data)
	assert.Equal(t, []csvParticipant{
		{Name: "Ana", Phone: "11999990000"},
		{Name: "Caio", Phone: "(11) 97777-0002"},
	}, rows)
	assert.Equal(t, 2, skipped)
}

func TestParseParticipantsCSV_RoundTrip(t *testing.T) {
	spins := []*models.SpinDetails{
		{Spin: models.Spin{SpunAt: time.Now()}, Player: &models.PlayerContact{Name: "Ana", Phone: "11999990000"}},
		{Spin: models.Spin{SpunAt: time.Now()}, Player: &models.PlayerContact{Name: `Ana "Aninha" Souza`, Phone: "11988880001"}},
		{Spin: models.Spin{SpunAt: time.Now()}, Player: &models.PlayerContact{Name: `Bia "`, Phone: "11977770002"}},
	}

	rows, skipped := parseParticipantsCSV(formatParticipantsCSV(spins, time.UTC))
	assert.Zero(t, skipped)
	assert.Equal(t, []csvParticipant{
		{Name: "Ana", Phone: "11999990000"},
		{Name: `Ana "Aninha" Souza`, Phone: "11988880001"},
		{Name: `Bia "`, Phone: "11977770002"},
	}, rows)
}
