package storage

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"oneshift/models"
)

// SQLiteStore is the default favorites backend: a single local database
// file, fine for one-host deployments.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS favorites (
		id INTEGER PRIMARY KEY,
		user_id TEXT NOT NULL,
		car_id TEXT NOT NULL,
		is_new BOOLEAN NOT NULL DEFAULT FALSE,
		data JSON,
		created_at DATETIME,
		link_ok BOOLEAN,
		last_checked_at DATETIME,
		UNIQUE(user_id, car_id)
	);

	CREATE INDEX IF NOT EXISTS idx_favorites_user ON favorites(user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_favorites_unchecked ON favorites(is_new, last_checked_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, car_id, is_new, data, created_at, link_ok, last_checked_at
		FROM favorites
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		fav, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}

func (s *SQLiteStore) AddFavorite(ctx context.Context, fav *models.Favorite) error {
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, car_id, is_new, data, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, car_id) DO UPDATE SET
			is_new = excluded.is_new,
			data = excluded.data`,
		fav.UserID, fav.CarID, fav.IsNew, []byte(fav.Data), fav.CreatedAt)
	if err != nil {
		return err
	}

	// Read back the authoritative row: on conflict the original id and
	// created_at stand.
	return s.db.QueryRowContext(ctx, `
		SELECT id, created_at FROM favorites WHERE user_id = ? AND car_id = ?`,
		fav.UserID, fav.CarID).Scan(&fav.ID, &fav.CreatedAt)
}

func (s *SQLiteStore) RemoveFavorites(ctx context.Context, userID, carID string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND car_id = ?`, userID, carID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) StaleUsedFavorites(ctx context.Context, olderThan time.Duration, limit int) ([]models.Favorite, error) {
	cutoff := time.Now().Add(-olderThan)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, car_id, is_new, data, created_at, link_ok, last_checked_at
		FROM favorites
		WHERE is_new = FALSE AND (last_checked_at IS NULL OR last_checked_at < ?)
		ORDER BY last_checked_at ASC
		LIMIT ?`, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		fav, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}

func (s *SQLiteStore) MarkLinkChecked(ctx context.Context, id int64, ok bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE favorites SET link_ok = ?, last_checked_at = ? WHERE id = ?`,
		ok, time.Now(), id)
	return err
}

func scanFavorite(rows *sql.Rows) (models.Favorite, error) {
	var fav models.Favorite
	var data []byte
	var linkOK sql.NullBool
	var checkedAt sql.NullTime

	if err := rows.Scan(&fav.ID, &fav.UserID, &fav.CarID, &fav.IsNew, &data,
		&fav.CreatedAt, &linkOK, &checkedAt); err != nil {
		return models.Favorite{}, err
	}

	fav.Data = data
	if linkOK.Valid {
		fav.LinkOK = &linkOK.Bool
	}
	if checkedAt.Valid {
		t := checkedAt.Time
		fav.LastCheckedAt = &t
	}
	return fav, nil
}
