// Package storage persists visitor carts.
//
// Three backends implement core.CartStore: a directory of JSON files, a
// PostgreSQL table and Redis keys. Open picks one from configuration.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/dispenser/internal/config"
	"github.com/JonMunkholm/dispenser/internal/core"
)

// ErrInvalidSession is returned for session ids that are not UUIDs.
var ErrInvalidSession = errors.New("invalid session id")

// Store is a cart store with a lifecycle.
type Store interface {
	core.CartStore
	Ping(ctx context.Context) error
	Close() error
}

// Sweeper is implemented by stores that do not expire carts on their own.
type Sweeper interface {
	Sweep(ctx context.Context, before time.Time) (int64, error)
}

// Open creates the store selected by cfg.Cart.Store.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch strings.ToLower(cfg.Cart.Store) {
	case config.StoreFile:
		return NewFileStore(cfg.Cart.Dir)

	case config.StorePostgres:
		if cfg.Database.AutoMigrate {
			if err := Migrate(cfg.Database.URL, MigrateUp); err != nil {
				return nil, err
			}
		}
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("parse database url: %w", err)
		}
		poolConfig.MaxConns = int32(cfg.Database.MaxConns)
		poolConfig.MinConns = int32(cfg.Database.MinConns)
		poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
		poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		return NewPostgresStore(pool), nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return NewRedisStore(client, cfg.Cart.TTL), nil
	}
	return nil, fmt.Errorf("unknown cart store %q", cfg.Cart.Store)
}

// StartSweeper removes carts untouched for ttl, every interval, until ctx is
// cancelled. Stores that are not a Sweeper return immediately.
// This function blocks and should be called as a goroutine.
func StartSweeper(ctx context.Context, store Store, ttl, interval time.Duration) {
	sw, ok := store.(Sweeper)
	if !ok {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("cart sweeper started", "ttl", ttl.String(), "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			slog.Info("cart sweeper stopped")
			return
		case <-ticker.C:
			runSweep(ctx, sw, ttl)
		}
	}
}

func runSweep(ctx context.Context, sw Sweeper, ttl time.Duration) {
	n, err := sw.Sweep(ctx, time.Now().Add(-ttl))
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("cart sweep failed", "error", err)
		}
		return
	}
	if n > 0 {
		slog.Info("expired carts removed", "count", n)
	}
}

// sessionUUID validates a session id.
func sessionUUID(sessionID string) (uuid.UUID, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidSession, sessionID)
	}
	return id, nil
}
