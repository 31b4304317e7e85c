package models

import "time"

const (
	UnknownClient = "unknown"

	TestGeneratorIP        = "127.0.0.1"
	TestGeneratorUserAgent = "Test Generator"
	CSVRestoreUserAgent    = "CSV Restore"
)

// TestParticipantNames are the fixed names used by the test participant generator.
var TestParticipantNames = []string{
	"Ana Silva", "Carlos Oliveira", "Mariana Santos", "João Souza",
	"Fernanda Lima", "Pedro Rocha", "Beatriz Costa", "Lucas Pereira",
	"Juliana Martins", "Rafael Alves",
}

// Player is a registered visitor. Phone is unique per tenant.
type Player struct {
	ID                string    `json:"id"`
	TenantID          string    `json:"tenant_id"`
	Name              string    `json:"name"`
	Phone             string    `json:"phone"`
	Email             *string   `json:"email"`
	IPAddress         string    `json:"ip_address"`
	UserAgent         string    `json:"user_agent"`
	DeviceFingerprint *string   `json:"device_fingerprint"`
	CreatedAt         time.Time `json:"created_at"`
}

// RegisterPlayerRequest is the input of a registration.
type RegisterPlayerRequest struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	DeviceFingerprint string `json:"deviceFingerprint,omitempty"`
	IPAddress         string `json:"-"`
	UserAgent         string `json:"-"`
}

// PlayerContact is the name/phone pair shown for winners.
type PlayerContact struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
