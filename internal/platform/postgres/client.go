package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"spin-raffle-backend/internal/common/config"
	"spin-raffle-backend/internal/common/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(ctx context.Context, cfg config.PostgresConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("PostgreSQL client initialized")

	return &Client{db: db}, nil
}

func (c *Client) GetDB() *sql.DB {
	return c.db
}

func (c *Client) Close() error {
	return c.db.Close()
}

// HealthCheck is used by the readiness probe.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Stats reports the connection pool state shown by the readiness probe.
func (c *Client) Stats() sql.DBStats {
	return c.db.Stats()
}
