package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"oneshift/catalog"
	"oneshift/config"
	"oneshift/favorites"
	"oneshift/httputil"
	"oneshift/logging"
	"oneshift/models"
	"oneshift/scheduler"
	"oneshift/server"
	"oneshift/services"
	"oneshift/storage"
	"oneshift/workers"
)

var (
	checkNow     = flag.Bool("linkcheck", false, "Run a favorites link check once and exit")
	listFavs     = flag.Bool("favorites", false, "List the current user's saved favorites and exit")
	toggleLink   = flag.String("toggle-favorite", "", "Toggle a used-car favorite by listing link and exit")
	apiBase      = flag.String("api", "", "Base URL of a running API instance for client commands")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogPath, cfg.LogMaxSize)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting oneshift...")

	ctx := context.Background()

	clients := httputil.NewClients()

	// Client commands talk to a running instance over HTTP, no local store.
	if *listFavs || *toggleLink != "" {
		base := *apiBase
		if base == "" {
			base = localBaseURL(cfg.Addr)
		}
		favs := runFavoritesCommand(ctx, base, clients.API, *toggleLink)
		for _, fav := range favs {
			log.Printf("  - %s (id %d)", fav.CarID, fav.ID)
		}
		return
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open favorites store: %v", err)
	}
	defer store.Close()

	linkWorker := workers.NewLinkCheckWorker(store, clients.LinkCheck)
	if *checkNow {
		log.Println("Running link check...")
		linkWorker.ProcessBatch(ctx, cfg.LinkCheck.StaleAfter, cfg.LinkCheck.BatchSize)
		log.Println("Link check complete!")
		return
	}

	var gemini *services.GeminiService
	if cfg.GeminiAPIKey != "" {
		gemini, err = services.NewGeminiService(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("Warning: assistant unavailable: %v", err)
		}
	} else {
		log.Println("No GEMINI_API_KEY set, assistant endpoints disabled")
	}

	cat := catalog.New()
	seed, err := catalog.LoadSeed(cfg.Catalog.SeedPath)
	if err != nil {
		log.Printf("Warning: could not load catalog seed: %v", err)
	} else {
		cat.Seed(seed)
		log.Printf("Seeded catalog with %d listings", len(seed))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var fillGen workers.ImageGenerator
	if gemini != nil {
		fillGen = gemini
	}
	fillWorker := workers.NewImageFillWorker(cat, fillGen)
	go fillWorker.Run(ctx)

	go linkWorker.Run(ctx, cfg.LinkCheck.StaleAfter, cfg.LinkCheck.BatchSize, 30*time.Minute)
	log.Println("Link check worker started")

	sched := scheduler.New(cfg, linkWorker)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(server.RequestID())
	server.SetupRoutes(r, server.Deps{
		Catalog: cat,
		Store:   store,
		Gemini:  gemini,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}
	go func() {
		log.Printf("API listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: server shutdown: %v", err)
	}
	log.Println("Goodbye!")
}

// runFavoritesCommand drives the sync engine against a running API
// instance as the persisted per-install user: optionally toggles a used-car
// favorite by link, then returns the settled set. Remote failures are
// absorbed by the engine's rollback, so the returned set is always the
// locally settled truth.
func runFavoritesCommand(ctx context.Context, baseURL string, httpClient *http.Client, link string) []models.Favorite {
	userID, err := favorites.LoadUserID()
	if err != nil {
		log.Printf("Warning: could not persist user id: %v", err)
	}

	engine := favorites.NewEngine(favorites.NewClient(baseURL, httpClient), userID)
	engine.Load(ctx)

	if link != "" {
		item := models.UsedCarItem(models.UsedCarListing{Link: link})
		if engine.Toggle(ctx, item) {
			log.Printf("Favorited %s", link)
		} else {
			log.Printf("Removed favorite %s", link)
		}
	}

	favs := engine.Favorites()
	log.Printf("%s has %d favorites", engine.UserID(), len(favs))
	return favs
}

// localBaseURL turns a listen address into a client base URL.
func localBaseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openStore picks Postgres when DATABASE_URL is set, SQLite otherwise.
func openStore(ctx context.Context, cfg *config.Config) (storage.FavoritesStore, error) {
	if cfg.Database.URL != "" {
		store, err := storage.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		log.Printf("Connected to Postgres: %s", maskConnectionString(cfg.Database.URL))
		return store, nil
	}

	store, err := storage.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	log.Printf("SQLite database: %s", cfg.Database.Path)
	return store, nil
}

// maskConnectionString masks password in connection string for logging
func maskConnectionString(connStr string) string {
	start := 0
	for i := 0; i < len(connStr)-3; i++ {
		if connStr[i:i+3] == "://" {
			start = i + 3
			break
		}
	}
	if start == 0 {
		return connStr
	}

	colonIdx := -1
	atIdx := -1
	for i := start; i < len(connStr); i++ {
		if connStr[i] == ':' && colonIdx == -1 {
			colonIdx = i
		}
		if connStr[i] == '@' {
			atIdx = i
			break
		}
	}

	if colonIdx > 0 && atIdx > colonIdx {
		return connStr[:colonIdx+1] + "****" + connStr[atIdx:]
	}
	return connStr
}
