package initializer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/amirasaad/urbanbank/infra"
	infraeventbus "github.com/amirasaad/urbanbank/infra/eventbus"
	inframsg "github.com/amirasaad/urbanbank/infra/repository/message"
	infratx "github.com/amirasaad/urbanbank/infra/repository/transaction"
	infrauser "github.com/amirasaad/urbanbank/infra/repository/user"
	"github.com/amirasaad/urbanbank/infra/store"
	"github.com/amirasaad/urbanbank/pkg/app"
	"github.com/amirasaad/urbanbank/pkg/config"
	"github.com/amirasaad/urbanbank/pkg/domain/events"
	"github.com/amirasaad/urbanbank/pkg/eventbus"
	"github.com/amirasaad/urbanbank/pkg/repository"
)

// Cleanup releases what InitializeDependencies opened.
type Cleanup func() error

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (*app.Deps, Cleanup, error) {
	return initialize(cfg, SetupLogger(cfg.Log, os.Stdout))
}

// InitializeWithLogger is InitializeDependencies with a caller-supplied
// logger.
func InitializeWithLogger(cfg *config.App, logger *slog.Logger) (*app.Deps, Cleanup, error) {
	return initialize(cfg, logger)
}

func initialize(cfg *config.App, logger *slog.Logger) (*app.Deps, Cleanup, error) {
	var closers []func() error
	cleanup := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	deps := &app.Deps{Logger: logger}

	s, closeStore, err := newStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if closeStore != nil {
		closers = append(closers, closeStore)
	}
	if err := s.Ensure(context.Background(), repository.Collections...); err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("failed to initialize collections: %w", err)
	}
	deps.Store = s
	deps.Users = infrauser.New(s)
	deps.Ledger = infratx.New(s)
	deps.Messages = inframsg.New(s)

	bus, closeBus := newEventBus(cfg.Events, logger)
	if closeBus != nil {
		closers = append(closers, closeBus)
	}
	deps.EventBus = bus

	logger.Info("Dependencies initialized", "store", cfg.Store.Driver)
	return deps, cleanup, nil
}

func newStore(cfg *config.App, logger *slog.Logger) (repository.Store, func() error, error) {
	switch cfg.Store.Driver {
	case "", "file":
		logger.Info("Using file store", "dir", cfg.Store.DataDir)
		return store.NewFileStore(cfg.Store.DataDir, logger), nil, nil
	case "postgres":
		db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
		if err != nil {
			logger.Error("Failed to initialize database", "error", err)
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using postgres store")
		return store.NewGormStore(db, logger), sqlDB.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// newEventBus publishes to Kafka when brokers are configured. Otherwise
// events stay in process and flagged transfers are written to the log for
// review.
func newEventBus(cfg *config.Events, logger *slog.Logger) (eventbus.Bus, func() error) {
	if cfg != nil && cfg.Kafka != nil && len(cfg.Kafka.Brokers) > 0 {
		logger.Info("Using Kafka event bus", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
		bus := infraeventbus.NewWithKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		return bus, bus.Close
	}
	bus := infraeventbus.NewWithMemory(logger)
	bus.Register(events.EventTypeTransferFlagged, func(ctx context.Context, e eventbus.Event) error {
		flagged, ok := e.(events.TransferFlagged)
		if !ok {
			return fmt.Errorf("unexpected event %T", e)
		}
		logger.Warn("Transfer held for review",
			"transaction_id", flagged.TransactionID,
			"from", flagged.From,
			"payee", flagged.Payee,
			"amount", flagged.Amount.String(),
			"held_by", flagged.HeldBy,
		)
		return nil
	})
	return bus, nil
}
