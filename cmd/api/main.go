package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/coachpilot/coachpilot-golang/internal/ai"
	"github.com/coachpilot/coachpilot-golang/internal/cache"
	"github.com/coachpilot/coachpilot-golang/internal/config"
	"github.com/coachpilot/coachpilot-golang/internal/handlers"
	"github.com/coachpilot/coachpilot-golang/internal/insights"
	"github.com/coachpilot/coachpilot-golang/internal/ledger"
	"github.com/coachpilot/coachpilot-golang/internal/logger"
	"github.com/coachpilot/coachpilot-golang/internal/routes"
	"github.com/coachpilot/coachpilot-golang/internal/store"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr, err := logger.New(cfg.Mode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logr.Sync()

	ctx := context.Background()

	// 1. --- Document Store ---
	// Firestore in any real deployment; the in-memory store is a local-dev
	// convenience when no project is configured.
	var docStore store.Store
	if cfg.FirestoreProject != "" {
		fs, err := store.NewFirestoreStore(ctx, cfg.FirestoreProject, logr)
		if err != nil {
			logr.Fatal("failed to connect to firestore", "err", err)
		}
		docStore = fs
	} else {
		if cfg.Mode != "dev" {
			logr.Fatal("FIRESTORE_PROJECT_ID is required outside dev mode")
		}
		logr.Warn("FIRESTORE_PROJECT_ID not set, using in-memory store (data is not persisted)")
		docStore = store.NewMemoryStore()
	}
	defer docStore.Close()

	// 2. --- Read Cache (optional) ---
	readCache, err := cache.New(cfg.RedisAddr, cfg.CacheTTL, logr)
	if err != nil {
		logr.Fatal("failed to connect to redis", "err", err)
	}
	defer readCache.Close()

	// 3. --- Insight Generator ---
	gen, err := ai.NewOpenAIGenerator(cfg.OpenAI, logr)
	if err != nil {
		logr.Fatal("failed to initialize insight generator", "err", err)
	}

	// 4. --- Services & Handlers ---
	// All dependencies are constructed here and injected; no package keeps
	// a global client.
	creditLedger := ledger.New(docStore, logr)
	insightService := insights.NewService(creditLedger, gen, logr)

	app := &handlers.Handlers{
		Store:    docStore,
		Ledger:   creditLedger,
		Insights: insightService,
		Cache:    readCache,
		Log:      logr,
	}

	// 5. --- Router & Server ---
	router := routes.SetupRouter(app, routes.Options{
		JWTSecret:     []byte(cfg.JWTSecret),
		AllowedOrigin: os.Getenv("CORS_ALLOWED_ORIGIN"),
	})

	logr.Info("starting CoachPilot API server", "port", cfg.Port, "mode", cfg.Mode)
	if err := router.Run(":" + cfg.Port); err != nil {
		logr.Fatal("server exited", "err", err)
	}
}
