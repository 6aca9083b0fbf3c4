package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/config"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/infra/storage"
	migrateUC "github.com/m04kA/SMC-DeliveryScheduler/internal/usecase/migrate_legacy_slots"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/logger"
)

// Одноразовая миграция слотов старого формата {time, capacity}
func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	dryRun := flag.Bool("dry-run", false, "report what would change without writing")
	minutes := flag.Int("minutes", 0, "window length for legacy slots, overrides scheduling.legacy_slot_minutes")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	ctx := context.Background()

	store, err := storage.Open(ctx, cfg, nil, log)
	if err != nil {
		log.Fatal("Failed to open storage (driver=%s): %v", cfg.Storage.Driver, err)
	}
	defer store.Close()

	slotMinutes := cfg.Scheduling.LegacySlotMinutes
	if *minutes > 0 {
		slotMinutes = *minutes
	}

	uc := migrateUC.NewUseCase(store.Settings, store.Ledger, store.Tx, log)
	resp, err := uc.Execute(ctx, &migrateUC.Request{SlotMinutes: slotMinutes, DryRun: *dryRun})
	if resp != nil {
		log.Info("Migration finished: scanned=%d, migrated=%d, slots=%d, bookings re-keyed=%d, dry-run=%t",
			resp.ShopsScanned, resp.ShopsMigrated, resp.SlotsConverted, resp.BookingsRekeyed, *dryRun)
	}
	if err != nil {
		log.Error("Migration failed: %v", err)
		store.Close()
		log.Close()
		os.Exit(1)
	}
}
