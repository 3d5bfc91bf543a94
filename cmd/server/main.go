package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portal/internal/domain/sync"
	"portal/internal/middleware"
	"portal/internal/platform/cache"
	"portal/internal/platform/config"
	"portal/internal/platform/poller"
	"portal/internal/platform/sheets"
	"portal/internal/session"
	"portal/internal/transport/http/handlers/auth"
	"portal/internal/transport/http/handlers/notifications"
	"portal/internal/transport/http/handlers/portal"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()

	var store cache.Store
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connect failed: %v", err)
		}
		defer pool.Close()

		pg := cache.NewPostgres(pool)
		if err := pg.Init(ctx); err != nil {
			log.Fatalf("cache schema setup failed: %v", err)
		}
		store = pg
	} else {
		log.Println("DATABASE_URL not set, using in-memory cache")
		store = cache.NewMemory()
	}

	client := sheets.New(cfg.Sources(), cfg.FetchTimeout, cfg.FetchDelay)
	engine := sync.NewEngine(client, store)
	sessions := session.NewManager(cfg.JWTSecret, cfg.SessionTTL, cfg.NotificationCap)

	bg := poller.New(engine, sessions, cfg.PollInterval)
	if err := bg.Start(); err != nil {
		log.Fatalf("poller start failed: %v", err)
	}
	defer bg.Stop()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Session(sessions))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(sessions, engine, store).RegisterRoutes(r)
		portalhandler.NewHandler(engine, store).RegisterRoutes(r)
		notificationhandler.NewHandler().RegisterRoutes(r)
	})

	log.Printf("portal server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
