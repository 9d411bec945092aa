// Package app assembles the ledger, the scheduler and their store from
// configuration. Both cmd/server and cmd/ledgerctl start here.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/ledgerly/internal/auth"
	"github.com/mmynk/ledgerly/internal/config"
	"github.com/mmynk/ledgerly/internal/ledger"
	"github.com/mmynk/ledgerly/internal/recurring"
	"github.com/mmynk/ledgerly/internal/storage"
	"github.com/mmynk/ledgerly/internal/storage/postgres"
	"github.com/mmynk/ledgerly/internal/storage/sqlite"
)

// App holds the long-lived components.
type App struct {
	Store     storage.Store
	Ledger    *ledger.Ledger
	Scheduler *recurring.Scheduler
}

// Open connects the configured store and builds the ledger and scheduler on it.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	l := ledger.New(store)
	return &App{
		Store:     store,
		Ledger:    l,
		Scheduler: recurring.NewScheduler(store, l, recurring.WithLocation(cfg.SchedulerTimezone)),
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

// OpenStore opens the store selected by cfg.DBDriver.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres storage: %w", err)
		}
		slog.Info("Storage initialized", "driver", cfg.DBDriver)
		return store, nil
	case config.DriverSQLite:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		slog.Info("Storage initialized", "driver", cfg.DBDriver, "database", cfg.DBPath)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.DBDriver)
	}
}

// Authenticator builds the wake credential checker from WAKE_SECRET and
// WAKE_KEY_HASH. With neither configured the chain is empty and rejects
// every credential.
func Authenticator(cfg *config.Config) (auth.Authenticator, error) {
	var chain auth.Chain
	if cfg.WakeSecret != "" {
		chain = append(chain, auth.NewJWTManager(cfg.WakeSecret, cfg.WakeTokenTTL))
	}
	if cfg.WakeKeyHash != "" {
		v, err := auth.NewKeyVerifier(cfg.WakeKeyHash)
		if err != nil {
			return nil, fmt.Errorf("WAKE_KEY_HASH: %w", err)
		}
		chain = append(chain, v)
	}
	if len(chain) == 0 {
		slog.Warn("No wake credential configured, protected RPCs are disabled")
	}
	return chain, nil
}
