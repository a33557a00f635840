package storage

import (
	"context"
	"time"

	"oneshift/models"
)

// FavoritesStore is the authoritative favorites set, keyed by
// (user_id, car_id). Both backends enforce that pair's uniqueness, so adds
// are upserts and duplicate in-flight requests collapse deterministically.
type FavoritesStore interface {
	// ListFavorites returns a user's favorites, newest first.
	ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error)

	// AddFavorite inserts fav, or refreshes the payload when the
	// (user_id, car_id) pair already exists. The store-assigned ID and
	// CreatedAt are written back into fav.
	AddFavorite(ctx context.Context, fav *models.Favorite) error

	// RemoveFavorites deletes every row matching (userID, carID) and
	// returns how many were deleted. Zero matches is not an error.
	RemoveFavorites(ctx context.Context, userID, carID string) (int64, error)

	// StaleUsedFavorites returns used-car favorites whose link has not
	// been checked within olderThan, for the linkcheck worker.
	StaleUsedFavorites(ctx context.Context, olderThan time.Duration, limit int) ([]models.Favorite, error)

	// MarkLinkChecked records a link health result for a favorite row.
	MarkLinkChecked(ctx context.Context, id int64, ok bool) error

	Close() error
}
