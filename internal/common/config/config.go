package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Debug    bool   `env:"DEBUG" envDefault:"false"`
	TenantID string `env:"TENANT_ID" envDefault:"default"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Storage struct {
		Driver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	}

	Postgres PostgresConfig

	Redis struct {
		Enabled  bool          `env:"REDIS_ENABLED" envDefault:"true"`
		Host     string        `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int           `env:"REDIS_PORT" envDefault:"6379"`
		Password string        `env:"REDIS_PASSWORD" envDefault:""`
		DB       int           `env:"REDIS_DB" envDefault:"0"`
		CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5s"`
	}

	// Admin "session" is a static token handed out on login.
	Admin struct {
		Username string `env:"ADMIN_USERNAME" envDefault:"superadmin"`
		Password string `env:"ADMIN_PASSWORD" envDefault:"102030"`
		Token    string `env:"ADMIN_TOKEN" envDefault:"authenticated"`
	}

	Raffle RaffleConfig
}

type PostgresConfig struct {
	Host            string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port            int           `env:"POSTGRES_PORT" envDefault:"5432"`
	User            string        `env:"POSTGRES_USER" envDefault:"raffle"`
	Password        string        `env:"POSTGRES_PASSWORD" envDefault:""`
	Database        string        `env:"POSTGRES_DB" envDefault:"raffle"`
	SSLMode         string        `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"30m"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE" envDefault:"false"`
}

// GetDSN returns a lib/pq connection URL.
func (p PostgresConfig) GetDSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:   "/" + p.Database,
	}
	q := u.Query()
	q.Set("sslmode", p.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

type RaffleConfig struct {
	CampaignDuration      time.Duration `env:"CAMPAIGN_DURATION" envDefault:"1h"`
	Timezone              string        `env:"RAFFLE_TIMEZONE" envDefault:"America/Sao_Paulo"`
	InstantWinEnabled     bool          `env:"INSTANT_WIN_ENABLED" envDefault:"false"`
	InstantWinChance      float64       `env:"INSTANT_WIN_CHANCE" envDefault:"0.02"`
	DeviceBlockingEnabled bool          `env:"DEVICE_BLOCKING_ENABLED" envDefault:"false"`
	ExpireInterval        time.Duration `env:"CAMPAIGN_EXPIRE_INTERVAL" envDefault:"30s"`
	RecentFallbackLimit   int           `env:"DRAW_RECENT_FALLBACK" envDefault:"50"`
	EmergencyDrawLimit    int           `env:"EMERGENCY_DRAW_LIMIT" envDefault:"1000"`
}

// Location resolves the configured timezone, falling back to UTC.
func (r RaffleConfig) Location() *time.Location {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Load() (*Config, error) {
	// .env is optional; in production variables come from the environment
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER: %q", c.Storage.Driver)
	}

	if c.TenantID == "" {
		return fmt.Errorf("TENANT_ID cannot be empty")
	}

	if c.Admin.Token == "" {
		return fmt.Errorf("ADMIN_TOKEN cannot be empty")
	}

	if c.Raffle.InstantWinChance < 0 || c.Raffle.InstantWinChance > 1 {
		return fmt.Errorf("INSTANT_WIN_CHANCE must be within [0, 1], got %v", c.Raffle.InstantWinChance)
	}

	if c.Raffle.RecentFallbackLimit <= 0 {
		return fmt.Errorf("DRAW_RECENT_FALLBACK must be positive")
	}

	if c.Raffle.EmergencyDrawLimit <= 0 {
		return fmt.Errorf("EMERGENCY_DRAW_LIMIT must be positive")
	}

	return nil
}
