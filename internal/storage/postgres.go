package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/dispenser/internal/core"
)

// PostgresStore keeps carts in the cart_sessions table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps a connected pool. The schema must be migrated.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func pgSessionID(sessionID string) (pgtype.UUID, error) {
	id, err := sessionUUID(sessionID)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: id, Valid: true}, nil
}

// Load returns the stored cart document.
func (s *PostgresStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	id, err := pgSessionID(sessionID)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = s.pool.QueryRow(ctx,
		`SELECT cart FROM cart_sessions WHERE session_id = $1`, id,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save upserts the cart document and touches updated_at.
func (s *PostgresStore) Save(ctx context.Context, sessionID string, data []byte) error {
	id, err := pgSessionID(sessionID)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO cart_sessions (session_id, cart, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_id)
		DO UPDATE SET cart = EXCLUDED.cart, updated_at = EXCLUDED.updated_at`,
		id, string(data),
	)
	return err
}

// Delete removes the session's row.
func (s *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	id, err := pgSessionID(sessionID)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `DELETE FROM cart_sessions WHERE session_id = $1`, id)
	return err
}

// Sweep deletes carts not updated since before.
func (s *PostgresStore) Sweep(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM cart_sessions WHERE updated_at < $1`,
		pgtype.Timestamptz{Time: before, Valid: true},
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
