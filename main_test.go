package main

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"oneshift/catalog"
	"oneshift/favorites"
	"oneshift/httputil"
	"oneshift/server"
	"oneshift/storage"
)

func TestRunFavoritesCommand(t *testing.T) {
	// The persisted user id lands under the config dir.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "favorites.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	server.SetupRoutes(r, server.Deps{Catalog: catalog.New(), Store: store})
	srv := httptest.NewServer(r)
	defer srv.Close()

	clients := httputil.NewClients()
	ctx := context.Background()
	link := "https://www.cars24.com/buy-used-car/swift-123"

	favs := runFavoritesCommand(ctx, srv.URL, clients.API, link)
	if len(favs) != 1 {
		t.Fatalf("expected 1 favorite after toggle, got %d", len(favs))
	}
	if favs[0].CarID != link {
		t.Fatalf("expected link-keyed favorite, got %q", favs[0].CarID)
	}
	if favs[0].Pending() {
		t.Fatalf("expected store-confirmed id, got %d", favs[0].ID)
	}

	// A fresh run reuses the persisted user id and sees the saved favorite.
	favs = runFavoritesCommand(ctx, srv.URL, clients.API, "")
	if len(favs) != 1 {
		t.Fatalf("expected saved favorite on reload, got %d", len(favs))
	}

	// Toggling again removes it remotely.
	userID, err := favorites.LoadUserID()
	if err != nil {
		t.Fatalf("failed to load user id: %v", err)
	}
	favs = runFavoritesCommand(ctx, srv.URL, clients.API, link)
	if len(favs) != 0 {
		t.Fatalf("expected favorite removed, got %d", len(favs))
	}
	stored, err := store.ListFavorites(ctx, userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("expected store row removed, got %d", len(stored))
	}
}

func TestLocalBaseURL(t *testing.T) {
	if got := localBaseURL(":5000"); got != "http://localhost:5000" {
		t.Fatalf("unexpected base url %q", got)
	}
	if got := localBaseURL("0.0.0.0:8080"); got != "http://0.0.0.0:8080" {
		t.Fatalf("unexpected base url %q", got)
	}
}
