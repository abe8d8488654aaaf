package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"walking-route-service/internal/adapters/cache"
	"walking-route-service/internal/adapters/connectivity"
	"walking-route-service/internal/adapters/directions"
	"walking-route-service/internal/api"
	"walking-route-service/internal/config"
	"walking-route-service/internal/platform/db"
	"walking-route-service/internal/ports"
	"walking-route-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (OSRM, SQLite/Postgres segment store) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	osrmURL := config.Get("OSRM_BASE_URL", "https://router.project-osrm.org")
	probeURL := config.Get("PROBE_URL", osrmURL)

	ttl, err := time.ParseDuration(config.Get("CACHE_TTL", "300s"))
	if err != nil {
		log.Fatalf("invalid CACHE_TTL: %v", err)
	}

	store, closeStore, err := openSegmentStore()
	if err != nil {
		log.Fatal(err)
	}
	if closeStore != nil {
		defer closeStore()
	}

	orchestrator := services.NewOrchestrator(
		directions.NewOSRMClient(osrmURL),
		connectivity.NewHTTPProbe(probeURL),
		store,
		ttl,
	)

	router := api.NewRouter(orchestrator)

	// Timeouts are tuned for cold-cache optimization (external API latency
	// across up to 14 segments, 3 at a time, with retries).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openSegmentStore picks the persistent segment tier from the environment:
// Postgres when DATABASE_URL is set, SQLite when SEGMENT_DB_PATH is set,
// otherwise no persistent tier at all.
func openSegmentStore() (ports.SegmentStore, func() error, error) {
	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitSQLSchema(pg); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return cache.NewSQLSegmentStore(pg), pg.Close, nil
	}

	if dbPath := strings.TrimSpace(os.Getenv("SEGMENT_DB_PATH")); dbPath != "" {
		lite, err := openSqlite(dbPath)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitSqliteSchema(lite); err != nil {
			lite.Close()
			return nil, nil, err
		}
		return cache.NewSqliteSegmentStore(lite), lite.Close, nil
	}

	return nil, nil, nil
}

func openSqlite(dbPath string) (*sql.DB, error) {
	lite, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openSqlite: open sqlite database %q: %w", dbPath, err)
	}

	if err := lite.Ping(); err != nil {
		return nil, fmt.Errorf("openSqlite: verify sqlite connection to %q: %w", dbPath, err)
	}

	return lite, nil
}
