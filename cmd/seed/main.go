// Command seed loads a JSON file of monitored areas into the configured
// store, replacing whatever area list is there. It runs the same validation
// and risk computation as the live API so seeded fixtures match real
// creation behavior.
//
// Usage:
//
//	go run ./cmd/seed -areas data/seed/kalaw_areas.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/gaga2159318-del/KalawFloodMap/internal/adapter/firebasestore"
	"github.com/gaga2159318-del/KalawFloodMap/internal/config"
	"github.com/gaga2159318-del/KalawFloodMap/internal/domain"
	"github.com/gaga2159318-del/KalawFloodMap/internal/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	areasPath := flag.String("areas", "", "path to JSON file of area creation requests")
	dryRun := flag.Bool("dry-run", false, "validate and print without writing to the store")
	flag.Parse()

	if *areasPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -areas")
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.FirestoreProjectID == "" {
		return fmt.Errorf("FIRESTORE_PROJECT_ID is required; the in-memory store cannot be seeded")
	}
	logger := observability.NewLogger(cfg)

	data, err := os.ReadFile(*areasPath)
	if err != nil {
		return fmt.Errorf("read areas file: %w", err)
	}
	var requests []domain.NewAreaRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return fmt.Errorf("parse areas file: %w", err)
	}

	areas := make([]domain.MonitoredArea, 0, len(requests))
	for i, req := range requests {
		area, err := domain.NewMonitoredArea(req)
		if err != nil {
			return fmt.Errorf("area %d (%q): %w", i, req.Name, err)
		}
		areas = append(areas, area)
		logger.Info("validated area", "name", area.Name, "type", area.Type, "flood_risk", area.FloodRisk)
	}

	if *dryRun {
		logger.Info("dry run complete", "areas", len(areas))
		return nil
	}

	ctx := context.Background()
	store, err := firebasestore.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("connect to firestore: %w", err)
	}
	defer store.Close() //nolint:errcheck // process exits right after

	if err := store.SaveAreas(ctx, areas); err != nil {
		return fmt.Errorf("save areas: %w", err)
	}
	logger.Info("seed complete", "areas", len(areas))
	return nil
}
