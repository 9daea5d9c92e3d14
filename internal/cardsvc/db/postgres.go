package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var DB *pgxpool.Pool

// Connect initializes the connection pool
func Connect(dsn string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	// Try pinging to make sure it's valid
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	DB = pool

	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS cards (
	card_id          BIGSERIAL PRIMARY KEY,
	mobile_number    VARCHAR(15)  NOT NULL,
	card_number      VARCHAR(100) NOT NULL,
	card_type        VARCHAR(100) NOT NULL,
	total_limit      INT          NOT NULL,
	amount_used      INT          NOT NULL,
	available_amount INT          NOT NULL,
	created_at       TIMESTAMPTZ  NOT NULL,
	created_by       VARCHAR(20)  NOT NULL,
	updated_at       TIMESTAMPTZ  DEFAULT NULL,
	updated_by       VARCHAR(20)  DEFAULT NULL,
	CONSTRAINT cards_mobile_number_key UNIQUE (mobile_number),
	CONSTRAINT cards_card_number_key UNIQUE (card_number)
);
`

// Migrate creates the cards table when it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}

// ClosePool is for graceful shutdown
func ClosePool() {
	if DB != nil {
		DB.Close()
	}
}
