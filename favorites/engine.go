package favorites

import (
	"context"
	"log"
	"sync"
	"time"

	"oneshift/identity"
	"oneshift/models"
)

// StoreClient is the remote half of the favorites engine.
type StoreClient interface {
	Fetch(ctx context.Context, userID string) ([]models.Favorite, error)
	Add(ctx context.Context, fav models.Favorite) (models.Favorite, error)
	Remove(ctx context.Context, userID, carID string) error
}

// Engine keeps the user's favorites set in memory and mirrors every change
// to the remote store. Mutations are optimistic: the local set updates
// before the request is issued and rolls back if the request fails.
type Engine struct {
	mu        sync.Mutex
	client    StoreClient
	userID    string
	favorites []models.Favorite
}

func NewEngine(client StoreClient, userID string) *Engine {
	return &Engine{
		client:    client,
		userID:    userID,
		favorites: []models.Favorite{},
	}
}

func (e *Engine) UserID() string {
	return e.userID
}

// Load replaces the local set with the remote one. A fetch failure leaves
// the set empty rather than stale.
func (e *Engine) Load(ctx context.Context) {
	favs, err := e.client.Fetch(ctx, e.userID)
	if err != nil {
		log.Printf("Warning: failed to fetch favorites for %s: %v", e.userID, err)
		favs = []models.Favorite{}
	}
	if favs == nil {
		favs = []models.Favorite{}
	}

	e.mu.Lock()
	e.favorites = favs
	e.mu.Unlock()
}

// IsFavorite reports whether the car is in the local set, pending entries
// included.
func (e *Engine) IsFavorite(carID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, fav := range e.favorites {
		if fav.CarID == carID {
			return true
		}
	}
	return false
}

// Favorites returns a copy of the current set.
func (e *Engine) Favorites() []models.Favorite {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Favorite, len(e.favorites))
	copy(out, e.favorites)
	return out
}

// Toggle adds the item to the favorites set if absent and removes it if
// present. It returns whether the item is favorited after the local state
// settles.
func (e *Engine) Toggle(ctx context.Context, item models.CarItem) bool {
	carID := identity.CarID(item)
	if e.IsFavorite(carID) {
		return e.remove(ctx, carID)
	}
	return e.add(ctx, item, carID)
}

func (e *Engine) add(ctx context.Context, item models.CarItem, carID string) bool {
	payload, err := item.Payload()
	if err != nil {
		log.Printf("Warning: failed to encode favorite %s: %v", carID, err)
		return false
	}

	pending := models.Favorite{
		ID:        models.PendingFavoriteID,
		UserID:    e.userID,
		CarID:     carID,
		IsNew:     item.IsNew(),
		Data:      payload,
		CreatedAt: time.Now(),
	}

	err = e.commit(
		func() { e.insert(pending) },
		func() { e.dropPending(carID) },
		func() error {
			saved, err := e.client.Add(ctx, pending)
			if err != nil {
				return err
			}
			e.confirm(carID, saved)
			return nil
		},
	)
	if err != nil {
		log.Printf("Warning: failed to save favorite %s, rolled back: %v", carID, err)
		return false
	}
	return true
}

func (e *Engine) remove(ctx context.Context, carID string) bool {
	var removed []removedFavorite
	err := e.commit(
		func() { removed = e.take(carID) },
		func() { e.putBack(removed) },
		func() error { return e.client.Remove(ctx, e.userID, carID) },
	)
	if err != nil {
		log.Printf("Warning: failed to remove favorite %s, rolled back: %v", carID, err)
		return true
	}
	return false
}

// commit applies a local mutation, issues the remote call, and reverts the
// mutation if the call fails. The local write always lands before the
// request starts.
func (e *Engine) commit(apply, revert func(), remote func() error) error {
	apply()
	if err := remote(); err != nil {
		revert()
		return err
	}
	return nil
}

func (e *Engine) insert(fav models.Favorite) {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := make([]models.Favorite, 0, len(e.favorites)+1)
	next = append(next, fav)
	next = append(next, e.favorites...)
	e.favorites = next
}

// confirm swaps the pending entry for the stored row, keeping the locally
// displayed data payload.
func (e *Engine) confirm(carID string, saved models.Favorite) {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := make([]models.Favorite, 0, len(e.favorites))
	for _, fav := range e.favorites {
		if fav.CarID == carID {
			saved.Data = fav.Data
			next = append(next, saved)
			continue
		}
		next = append(next, fav)
	}
	e.favorites = next
}

// dropPending removes the optimistic entry for carID; a settled entry with
// the same id is left alone.
func (e *Engine) dropPending(carID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := make([]models.Favorite, 0, len(e.favorites))
	for _, fav := range e.favorites {
		if fav.CarID == carID && fav.Pending() {
			continue
		}
		next = append(next, fav)
	}
	e.favorites = next
}

// removedFavorite remembers where an entry sat so a rollback can put it
// back in place instead of at the head.
type removedFavorite struct {
	fav   models.Favorite
	index int
}

// take removes and returns every entry for carID with its position.
func (e *Engine) take(carID string) []removedFavorite {
	e.mu.Lock()
	defer e.mu.Unlock()
	var removed []removedFavorite
	next := make([]models.Favorite, 0, len(e.favorites))
	for i, fav := range e.favorites {
		if fav.CarID == carID {
			removed = append(removed, removedFavorite{fav: fav, index: i})
			continue
		}
		next = append(next, fav)
	}
	e.favorites = next
	return removed
}

// putBack restores entries removed by take at their recorded positions,
// skipping any car id that came back in the meantime. Indices are ascending,
// so restoring in order recreates the original layout.
func (e *Engine) putBack(removed []removedFavorite) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, rem := range removed {
		present := false
		for _, cur := range e.favorites {
			if cur.CarID == rem.fav.CarID {
				present = true
				break
			}
		}
		if present {
			continue
		}
		at := rem.index
		if at > len(e.favorites) {
			at = len(e.favorites)
		}
		next := make([]models.Favorite, 0, len(e.favorites)+1)
		next = append(next, e.favorites[:at]...)
		next = append(next, rem.fav)
		next = append(next, e.favorites[at:]...)
		e.favorites = next
	}
}
