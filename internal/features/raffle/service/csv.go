package service

import (
	"regexp"
	"strings"
	"time"

	"spin-raffle-backend/internal/features/raffle/models"
)

const (
	csvBOM       = "\ufeff"
	csvHeader    = "Nome,Telefone,Data/Hora,Ganhou"
	csvMissing   = "N/A"
	csvWinnerYes = "Sim"
	csvWinnerNo  = "Não"
)

var quotedField = regexp.MustCompile(`"((?:[^"]|"")*)"`)

// csvParticipant is one restorable line of an exported participants file.
type csvParticipant struct {
	Name  string
	Phone string
}

// formatParticipantsCSV renders spins as the participants export: BOM, header,
// every field quoted, rows joined by "\n" without a trailing newline.
func formatParticipantsCSV(spins []*models.SpinDetails, loc *time.Location) string {
	rows := make([]string, 0, len(spins)+1)
	rows = append(rows, csvHeader)

	for _, sp := range spins {
		name, phone := csvMissing, csvMissing
		if sp.Player != nil {
			if sp.Player.Name != "" {
				name = sp.Player.Name
			}
			if sp.Player.Phone != "" {
				phone = sp.Player.Phone
			}
		}
		won := csvWinnerNo
		if sp.IsWinner {
			won = csvWinnerYes
		}
		rows = append(rows, csvRow(name, phone, models.FormatLocal(sp.SpunAt, loc), won))
	}

	return csvBOM + strings.Join(rows, "\n")
}

func csvRow(fields ...string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// parseParticipantsCSV extracts name and phone from the first two quoted fields of
// each line. Blank lines, the header and lines with fewer than two quoted fields
// are skipped; skipped reports how many non-blank lines were dropped.
func parseParticipantsCSV(data string) (participants []csvParticipant, skipped int) {
	data = strings.TrimPrefix(data, csvBOM)

	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		if strings.Contains(line, "Nome,Telefone") {
			continue
		}

		fields := quotedField.FindAllStringSubmatch(line, -1)
		if len(fields) < 2 {
			skipped++
			continue
		}
		participants = append(participants, csvParticipant{
			Name:  unquoteField(fields[0][1]),
			Phone: unquoteField(fields[1][1]),
		})
	}
	return participants, skipped
}

// unquoteField undoes the "" escape of csvRow.
func unquoteField(f string) string {
	return strings.TrimSpace(strings.ReplaceAll(f, `""`, `"`))
}
