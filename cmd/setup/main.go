package main

import (
	"context"
	"flag"
	"log"

	"listing-credit-ledger/internal/config"
	"listing-credit-ledger/internal/infra/db/postgres"
	"listing-credit-ledger/internal/infra/redis"
)

// Creates the ledger schema and optionally wipes all data, for local
// development and manual end-to-end testing.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	wipe := flag.Bool("wipe", false, "truncate all ledger tables and flush the cache")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	pool, err := postgres.NewPgxPool(ctx, cfg.Database.URL, 5)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer pool.Close()

	log.Println("applying ledger schema...")
	if _, err := pool.Exec(ctx, postgres.Schema); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	if *wipe {
		log.Println("wiping ledger data...")
		_, err = pool.Exec(ctx, `
			TRUNCATE credit_types, credits, consumption_records
			RESTART IDENTITY CASCADE;
		`)
		if err != nil {
			log.Fatalf("failed to truncate tables: %v", err)
		}

		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer redisClient.Close()
		if err := redisClient.Del(ctx, "credit_types:all"); err != nil {
			log.Printf("cache invalidation failed: %v", err)
		}
	}

	log.Println("setup complete")
}
