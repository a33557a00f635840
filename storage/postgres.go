package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"oneshift/models"
)

// PostgresStore is the favorites backend for shared deployments.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS favorites (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		car_id TEXT NOT NULL,
		is_new BOOLEAN NOT NULL DEFAULT FALSE,
		data JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		link_ok BOOLEAN,
		last_checked_at TIMESTAMPTZ,
		UNIQUE(user_id, car_id)
	);

	CREATE INDEX IF NOT EXISTS idx_favorites_user ON favorites(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_favorites_unchecked ON favorites(is_new, last_checked_at);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *PostgresStore) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	query := `
		SELECT id, user_id, car_id, is_new, data, created_at, link_ok, last_checked_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		var fav models.Favorite
		var data []byte
		if err := rows.Scan(&fav.ID, &fav.UserID, &fav.CarID, &fav.IsNew, &data,
			&fav.CreatedAt, &fav.LinkOK, &fav.LastCheckedAt); err != nil {
			return nil, err
		}
		fav.Data = data
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}

func (s *PostgresStore) AddFavorite(ctx context.Context, fav *models.Favorite) error {
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO favorites (user_id, car_id, is_new, data, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, car_id) DO UPDATE SET
			is_new = EXCLUDED.is_new,
			data = EXCLUDED.data
		RETURNING id, created_at`

	return s.pool.QueryRow(ctx, query,
		fav.UserID, fav.CarID, fav.IsNew, []byte(fav.Data), fav.CreatedAt,
	).Scan(&fav.ID, &fav.CreatedAt)
}

func (s *PostgresStore) RemoveFavorites(ctx context.Context, userID, carID string) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND car_id = $2`, userID, carID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) StaleUsedFavorites(ctx context.Context, olderThan time.Duration, limit int) ([]models.Favorite, error) {
	query := `
		SELECT id, user_id, car_id, is_new, data, created_at, link_ok, last_checked_at
		FROM favorites
		WHERE is_new = FALSE AND (last_checked_at IS NULL OR last_checked_at < $1)
		ORDER BY last_checked_at ASC NULLS FIRST
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, time.Now().Add(-olderThan), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		var fav models.Favorite
		var data []byte
		if err := rows.Scan(&fav.ID, &fav.UserID, &fav.CarID, &fav.IsNew, &data,
			&fav.CreatedAt, &fav.LinkOK, &fav.LastCheckedAt); err != nil {
			return nil, err
		}
		fav.Data = data
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}

func (s *PostgresStore) MarkLinkChecked(ctx context.Context, id int64, ok bool) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE favorites SET link_ok = $2, last_checked_at = $3 WHERE id = $1`,
		id, ok, time.Now())
	return err
}
