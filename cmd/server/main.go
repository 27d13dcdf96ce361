package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"fleet-dispatch-service/internal/adapters/cache"
	"fleet-dispatch-service/internal/adapters/repositories"
	"fleet-dispatch-service/internal/api"
	"fleet-dispatch-service/internal/config"
	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/platform/db"
	"fleet-dispatch-service/internal/ports"
	"fleet-dispatch-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	seedPath := config.Get("SEED_PATH", "data/seeds/fleet.json")

	depot, err := domain.ParsePoint(config.Get("DEPOT", "0,0"))
	if err != nil {
		log.Fatalf("DEPOT: %v", err)
	}

	store, cleanup, err := openStore(seedPath)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	planCache := openPlanCache()

	dispatcher := services.NewDispatcher(store, services.NearestNeighborStrategy{})
	router := api.NewRouter(store, dispatcher, planCache, depot)

	log.Printf("Server listening addr=:%s depot=%g,%g", port, depot.X, depot.Y)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openStore picks the fleet store: Postgres when DATABASE_URL is set,
// otherwise an in-memory store for local runs.
func openStore(seedPath string) (ports.FleetStore, func(), error) {
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		log.Println("DATABASE_URL not set; using in-memory fleet store")
		store := repositories.NewMemoryFleetStore()

		seed, err := repositories.LoadSeed(seedPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Printf("No seed file at %s; starting with an empty fleet", seedPath)
		case err != nil:
			return nil, nil, fmt.Errorf("open store: %w", err)
		default:
			store.ApplySeed(seed)
		}
		return store, func() {}, nil
	}

	database, err := db.Open(databaseURL)
	if err != nil {
		return nil, nil, err
	}

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(database, seedPath); err != nil {
		database.Close()
		return nil, nil, err
	}

	return repositories.NewPostgresFleetStore(database), func() { database.Close() }, nil
}

func initAndSeed(database *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(database); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	err := repositories.SeedFromJSON(database, seedPath)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("No seed file at %s; skipping seed", seedPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	return nil
}

// openPlanCache connects the optional Redis snapshot cache. Planning
// works without it; GET /plans just has nothing to serve.
func openPlanCache() ports.PlanCache {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		log.Println("REDIS_ADDR not set; plan snapshots disabled")
		return nil
	}

	ttl := config.GetDuration("PLAN_CACHE_TTL", 5*time.Minute)
	client := redis.NewClient(&redis.Options{Addr: addr})
	log.Printf("Plan cache enabled addr=%s ttl=%s", addr, ttl)
	return cache.NewRedisPlanCache(client, ttl)
}
