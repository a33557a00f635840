package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"oneshift/identity"
	"oneshift/models"
)

// fakeStore is an in-memory StoreClient with switchable failures.
type fakeStore struct {
	mu         sync.Mutex
	rows       map[string]models.Favorite // keyed by carID
	nextID     int64
	failFetch  bool
	failAdd    bool
	failRemove bool

	onAdd func() // called before the add is applied, for interleaving tests
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]models.Favorite), nextID: 100}
}

func (s *fakeStore) Fetch(ctx context.Context, userID string) ([]models.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFetch {
		return nil, errors.New("store down")
	}
	var out []models.Favorite
	for _, fav := range s.rows {
		out = append(out, fav)
	}
	return out, nil
}

func (s *fakeStore) Add(ctx context.Context, fav models.Favorite) (models.Favorite, error) {
	if s.onAdd != nil {
		s.onAdd()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAdd {
		return models.Favorite{}, errors.New("store down")
	}
	s.nextID++
	fav.ID = s.nextID
	s.rows[fav.CarID] = fav
	return fav, nil
}

func (s *fakeStore) Remove(ctx context.Context, userID, carID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRemove {
		return errors.New("store down")
	}
	delete(s.rows, carID)
	return nil
}

func newItem() models.CarItem {
	return models.NewCarItem(models.NewCarRecommendation{
		MakeModel: "Tata Nexon",
		Variant:   "XZ Plus",
		Price:     "₹11.50 Lakh",
	})
}

func usedItem() models.CarItem {
	return models.UsedCarItem(models.UsedCarListing{
		MakeModel: "Maruti Swift",
		Link:      "https://www.cars24.com/buy-used-car/swift-123",
	})
}

func TestLoad_FetchFailureLeavesEmptySet(t *testing.T) {
	store := newFakeStore()
	store.rows["stale"] = models.Favorite{ID: 1, CarID: "stale"}
	store.failFetch = true

	e := NewEngine(store, "user_abc123def")
	e.Load(context.Background())

	if len(e.Favorites()) != 0 {
		t.Fatalf("expected empty set after fetch failure, got %d", len(e.Favorites()))
	}
}

func TestToggle_AddReconcilesPendingEntry(t *testing.T) {
	store := newFakeStore()
	e := NewEngine(store, "user_abc123def")
	item := newItem()
	carID := identity.CarID(item)

	if !e.Toggle(context.Background(), item) {
		t.Fatalf("expected toggle to favorite the item")
	}
	if !e.IsFavorite(carID) {
		t.Fatalf("expected %s favorited", carID)
	}

	favs := e.Favorites()
	if len(favs) != 1 {
		t.Fatalf("expected 1 favorite, got %d", len(favs))
	}
	if favs[0].Pending() {
		t.Fatalf("expected pending id replaced, got %d", favs[0].ID)
	}
	if favs[0].ID != 101 {
		t.Fatalf("expected store id 101, got %d", favs[0].ID)
	}

	var data models.NewCarRecommendation
	if err := json.Unmarshal(favs[0].Data, &data); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if data.MakeModel != "Tata Nexon" {
		t.Fatalf("expected payload preserved, got %q", data.MakeModel)
	}
}

func TestToggle_AddFailureRollsBack(t *testing.T) {
	store := newFakeStore()
	store.failAdd = true
	e := NewEngine(store, "user_abc123def")
	item := newItem()

	if e.Toggle(context.Background(), item) {
		t.Fatalf("expected toggle to report not favorited after failure")
	}
	if e.IsFavorite(identity.CarID(item)) {
		t.Fatalf("expected optimistic entry rolled back")
	}
	if len(e.Favorites()) != 0 {
		t.Fatalf("expected empty set, got %d", len(e.Favorites()))
	}
}

func TestToggle_RemoveFailureRestoresEntry(t *testing.T) {
	store := newFakeStore()
	e := NewEngine(store, "user_abc123def")
	item := usedItem()
	carID := identity.CarID(item)

	if !e.Toggle(context.Background(), item) {
		t.Fatalf("setup: add failed")
	}
	saved := e.Favorites()[0]

	store.failRemove = true
	if !e.Toggle(context.Background(), item) {
		t.Fatalf("expected toggle to report still favorited after failed remove")
	}
	if !e.IsFavorite(carID) {
		t.Fatalf("expected entry restored after failed remove")
	}
	restored := e.Favorites()[0]
	if restored.ID != saved.ID {
		t.Fatalf("expected restored entry to keep id %d, got %d", saved.ID, restored.ID)
	}
}

func TestToggle_FailedRemoveKeepsPosition(t *testing.T) {
	store := newFakeStore()
	e := NewEngine(store, "user_abc123def")

	first := models.NewCarItem(models.NewCarRecommendation{MakeModel: "Tata Nexon", Variant: "XZ"})
	second := models.NewCarItem(models.NewCarRecommendation{MakeModel: "Kia Seltos", Variant: "HTX"})
	third := models.NewCarItem(models.NewCarRecommendation{MakeModel: "MG Astor", Variant: "Sharp"})
	e.Toggle(context.Background(), first)
	e.Toggle(context.Background(), second)
	e.Toggle(context.Background(), third)

	before := e.Favorites()
	if len(before) != 3 {
		t.Fatalf("setup: expected 3 favorites, got %d", len(before))
	}

	// Removing the middle entry fails remotely; the rollback must restore
	// it where it was, not at the head.
	store.failRemove = true
	if !e.Toggle(context.Background(), second) {
		t.Fatalf("expected toggle to report still favorited")
	}

	after := e.Favorites()
	if len(after) != 3 {
		t.Fatalf("expected 3 favorites after rollback, got %d", len(after))
	}
	for i := range before {
		if after[i].CarID != before[i].CarID {
			t.Fatalf("expected order preserved at %d: %q vs %q", i, after[i].CarID, before[i].CarID)
		}
	}
}

func TestToggle_RemoveSuccess(t *testing.T) {
	store := newFakeStore()
	e := NewEngine(store, "user_abc123def")
	item := usedItem()
	carID := identity.CarID(item)

	e.Toggle(context.Background(), item)
	if e.Toggle(context.Background(), item) {
		t.Fatalf("expected second toggle to unfavorite")
	}
	if e.IsFavorite(carID) {
		t.Fatalf("expected %s removed", carID)
	}
	if _, ok := store.rows[carID]; ok {
		t.Fatalf("expected store row removed")
	}
}

func TestToggle_LocalStateFlipsBeforeRemoteCall(t *testing.T) {
	store := newFakeStore()
	e := NewEngine(store, "user_abc123def")
	item := newItem()
	carID := identity.CarID(item)

	var duringAdd bool
	store.onAdd = func() { duringAdd = e.IsFavorite(carID) }

	e.Toggle(context.Background(), item)
	if !duringAdd {
		t.Fatalf("expected item favorited locally before the add request ran")
	}
}

func TestToggle_UntoggleWhileAddInFlight(t *testing.T) {
	store := newFakeStore()
	e := NewEngine(store, "user_abc123def")
	item := newItem()
	carID := identity.CarID(item)

	addStarted := make(chan struct{})
	release := make(chan struct{})
	store.onAdd = func() {
		close(addStarted)
		<-release
	}

	done := make(chan struct{})
	go func() {
		e.Toggle(context.Background(), item)
		close(done)
	}()

	// The optimistic entry is visible while the add request is in flight;
	// toggling again removes it straight away.
	<-addStarted
	if !e.IsFavorite(carID) {
		t.Fatalf("expected pending entry visible during add")
	}
	if e.Toggle(context.Background(), item) {
		t.Fatalf("expected second toggle to unfavorite")
	}

	close(release)
	<-done

	// The settled add must not resurrect the entry.
	if e.IsFavorite(carID) {
		t.Fatalf("expected item to stay unfavorited after add settled")
	}
}

func TestUserIDFormat(t *testing.T) {
	id := NewUserID()
	if len(id) != len("user_")+9 {
		t.Fatalf("unexpected user id length: %q", id)
	}
	if id[:5] != "user_" {
		t.Fatalf("expected user_ prefix, got %q", id)
	}
	if id == NewUserID() && id == NewUserID() {
		t.Fatalf("expected ids to vary")
	}
}
