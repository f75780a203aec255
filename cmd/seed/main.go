package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"listing-credit-ledger/internal/config"
	"listing-credit-ledger/internal/domain/model"
	pg "listing-credit-ledger/internal/infra/db/postgres"
	"listing-credit-ledger/internal/infra/logging"
	"listing-credit-ledger/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	typeUC := usecase.NewCreditTypeUseCase(pg.NewCreditTypeRepo(pool), logger)

	// If credit types already exist, do nothing
	types, err := typeUC.List(ctx)
	if err != nil {
		log.Fatalf("list credit types: %v", err)
	}
	if len(types) > 0 {
		fmt.Printf("%d credit types already present. No changes.\n", len(types))
		for _, t := range types {
			fmt.Printf("  - %s (%s, default=%.1f, monthly_free=%v)\n", t.SKU, t.Name, t.DefaultQuantity, t.IsMonthlyFree)
		}
		return
	}

	// Seed the standard catalog
	seed := []struct {
		SKU         string
		Name        string
		Quantity    float64
		MonthlyFree bool
	}{
		{model.MonthlyFreeSKU, "Monthly Free Listings", 5, true},
		{"listing-10", "10 Listings Pack", 10, false},
		{"listing-50", "50 Listings Pack", 50, false},
		{"featured-listing", "Featured Listing", 1, false},
	}

	for _, s := range seed {
		t, err := typeUC.Create(ctx, s.SKU, s.Name, s.Quantity, s.MonthlyFree)
		if err != nil {
			log.Fatalf("create credit type %q: %v", s.SKU, err)
		}
		fmt.Printf("seeded: %s (%s, default=%.1f, monthly_free=%v)\n", t.SKU, t.Name, t.DefaultQuantity, t.IsMonthlyFree)
	}

	fmt.Println("Seeding complete.")
}
