package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/storefront/internal/core/config"
	"github.com/colonyops/storefront/internal/core/eventbus"
	"github.com/colonyops/storefront/internal/core/kv"
	"github.com/colonyops/storefront/internal/core/logging"
	"github.com/colonyops/storefront/internal/core/notify"
	"github.com/colonyops/storefront/internal/core/persist"
	"github.com/colonyops/storefront/internal/core/store"
	"github.com/colonyops/storefront/internal/data/db"
	"github.com/colonyops/storefront/internal/data/stores"
	"github.com/colonyops/storefront/internal/store/jsonfile"
	"github.com/colonyops/storefront/internal/storefront/upstream"
)

// App is the central entry point for all storefront operations.
// Commands, the TUI, and the HTTP server consume App instead of
// cherry-picking raw dependencies.
type App struct {
	Catalog  *CatalogService
	Shop     *ShopService
	Checkout *CheckoutService

	Store   *store.Store
	Bus     *eventbus.EventBus
	Persist *persist.Bridge
	Storage kv.Storage
	Config  *config.Config

	log            zerolog.Logger
	closeStorage   func() error
	detachPersist  func()
	recoveredFrom  string
	startOnce      sync.Once
	stopBackground context.CancelFunc
	background     sync.WaitGroup
}

// AppOptions overrides collaborators, mainly for tests.
type AppOptions struct {
	Fetcher Fetcher      // defaults to the upstream HTTP client
	Storage kv.Storage   // defaults to the configured storage driver
	Clock   notify.Clock // drives toast expiry
	Logger  zerolog.Logger
}

// NewApp opens storage, hydrates the store from it, and wires every service.
// Close releases what NewApp opened.
func NewApp(ctx context.Context, cfg *config.Config, opts AppOptions) (*App, error) {
	logger := opts.Logger

	storage, closeStorage, backup := opts.Storage, func() error { return nil }, ""
	if storage == nil {
		var err error
		storage, closeStorage, backup, err = OpenStorage(cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	st := store.New(
		store.WithToastTTL(cfg.Store.ToastTTL),
		store.WithLogger(logging.ComponentOf(logger, "store")),
		store.WithClock(opts.Clock),
	)

	bridge := persist.New(storage, st,
		persist.WithLogger(logging.ComponentOf(logger, "persist")),
		persist.WithPlaceholder(cfg.Catalog.PlaceholderImage),
	)
	bridge.Hydrate(ctx)
	detach := bridge.Attach(ctx)

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = upstream.New(upstream.Options{
			DummyJSONURL: cfg.Catalog.DummyJSONURL,
			FakeStoreURL: cfg.Catalog.FakeStoreURL,
			Timeout:      cfg.Catalog.Timeout,
			Logger:       logging.ComponentOf(logger, "upstream"),
		})
	}

	catalogSvc := NewCatalogService(fetcher, CatalogOptions{
		Placeholder:    cfg.Catalog.PlaceholderImage,
		MaxConcurrency: cfg.Catalog.MaxConcurrency,
		Logger:         logging.ComponentOf(logger, "catalog"),
	})

	if backup != "" {
		logger.Warn().Str("backup", backup).Msg("storage database was corrupted and has been reset")
	}

	return &App{
		Catalog:       catalogSvc,
		Shop:          NewShopService(catalogSvc, st),
		Checkout:      NewCheckoutService(st, WithCheckoutLogger(logging.ComponentOf(logger, "checkout"))),
		Store:         st,
		Bus:           eventbus.New(eventbus.DefaultBufferSize),
		Persist:       bridge,
		Storage:       storage,
		Config:        cfg,
		log:           logger,
		closeStorage:  closeStorage,
		detachPersist: detach,
		recoveredFrom: backup,
	}, nil
}

// RecoveredFrom returns the path a corrupted database was moved to when the
// app opened, or "" when no recovery happened.
func (a *App) RecoveredFrom() string {
	return a.recoveredFrom
}

// OpenStorage opens the storage backend selected by cfg.Storage.Driver. The
// returned close function releases it. backup is non-empty when a corrupted
// sqlite database was moved aside.
func OpenStorage(cfg *config.Config, logger zerolog.Logger) (kv.Storage, func() error, string, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Driver {
	case config.DriverFile, "":
		return jsonfile.NewLocalStorage(cfg.StorageDir()), noop, "", nil

	case config.DriverSQLite:
		database, backup, err := stores.OpenRecovering(cfg.DataDir, db.OpenOptions{
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			BusyTimeout:  cfg.Database.BusyTimeout,
		})
		if err != nil {
			return nil, nil, "", fmt.Errorf("open database: %w", err)
		}
		logger.Debug().Str("dir", cfg.DataDir).Msg("opened sqlite storage")
		return stores.NewKVStore(database), database.Close, backup, nil

	case config.DriverMemory:
		return kv.NewMemory(), noop, "", nil

	default:
		return nil, nil, "", fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Start begins the background work long-running consumers need: relaying
// store changes onto the event bus, dispatching bus events, and (for file
// storage) reloading state written by other processes. It returns once the
// work is running; Close stops it.
func (a *App) Start(ctx context.Context) error {
	var err error
	a.startOnce.Do(func() {
		err = a.start(ctx)
	})
	return err
}

func (a *App) start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.stopBackground = cancel

	eventbus.RegisterDebugLogger(a.Bus, logging.ComponentOf(a.log, "eventbus"))
	stopRelay := eventbus.Relay(a.Store, a.Bus)

	a.background.Add(1)
	go func() {
		defer a.background.Done()
		defer stopRelay()
		a.Bus.Start(ctx)
	}()

	local, ok := a.Storage.(*jsonfile.LocalStorage)
	if !ok || !a.Config.Storage.WatchEnabled() {
		return nil
	}

	watchLog := logging.ComponentOf(a.log, "storage-watcher")
	watcher, err := jsonfile.NewWatcher(local.Dir(), watchLog)
	if err != nil {
		// Run without cross-process reloads.
		watchLog.Warn().Err(err).Msg("storage watcher unavailable")
		return nil
	}

	events := watcher.Watch(ctx, persist.Keys...)
	a.background.Add(1)
	go func() {
		defer a.background.Done()
		defer func() { _ = watcher.Close() }()

		for ev := range events {
			if a.Persist.Reload(ctx) {
				watchLog.Debug().Str("key", ev.Key).Msg("reloaded state written by another process")
			}
		}
	}()

	return nil
}

// Close stops background work, cancels pending toast expiry, detaches
// persistence, and closes storage.
func (a *App) Close() error {
	if a.stopBackground != nil {
		a.stopBackground()
	}
	a.background.Wait()

	a.Store.Close()
	a.detachPersist()

	var errs []error
	if err := a.closeStorage(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}
