package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/config"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/infra/storage/ledger"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/infra/storage/mongostore"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/infra/storage/settings"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/infra/storage/zone"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/metrics"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/txmanager"
)

// SettingsStore хранилище настроек доставки
type SettingsStore interface {
	Get(ctx context.Context, shop string) (*domain.DeliverySettings, error)
	Save(ctx context.Context, s *domain.DeliverySettings) (*domain.DeliverySettings, error)
	ListStoredSlots(ctx context.Context) ([]domain.ShopStoredSlots, error)
	ReplaceTimeSlots(ctx context.Context, shop string, slots []domain.TimeSlot) error
}

// LedgerStore журнал бронирований
type LedgerStore interface {
	LockSlot(ctx context.Context, key domain.SlotKey) error
	Count(ctx context.Context, shop, date string, slotID domain.SlotID) (int, error)
	CountRange(ctx context.Context, shop, from, to string) (map[domain.SlotKey]int, error)
	Append(ctx context.Context, record *domain.BookingRecord) (*domain.BookingRecord, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingRecord, error)
	DeleteByOrder(ctx context.Context, shop, orderID string) ([]*domain.BookingRecord, error)
	RekeySlot(ctx context.Context, shop, fromSlotID string, toSlotID domain.SlotID) (int64, error)
}

// ZoneStore хранилище зон доставки
type ZoneStore interface {
	ListByShop(ctx context.Context, shop string) ([]*domain.DeliveryZone, error)
	GetByID(ctx context.Context, shop, id string) (*domain.DeliveryZone, error)
	Create(ctx context.Context, z *domain.DeliveryZone) (*domain.DeliveryZone, error)
	Update(ctx context.Context, z *domain.DeliveryZone) (*domain.DeliveryZone, error)
	Delete(ctx context.Context, shop, id string) error
}

// TransactionManager транзакции выбранного хранилища
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Storage репозитории выбранного драйвера (postgres или mongo)
type Storage struct {
	Settings SettingsStore
	Ledger   LedgerStore
	Zones    ZoneStore
	Tx       TransactionManager

	pingFn  func(ctx context.Context) error
	closeFn func() error
}

// Ping проверяет доступность хранилища
func (s *Storage) Ping(ctx context.Context) error {
	return s.pingFn(ctx)
}

// Close закрывает соединения и останавливает сбор статистики пула
func (s *Storage) Close() error {
	return s.closeFn()
}

// Open подключается к хранилищу, указанному в storage.driver
// m может быть nil
func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log Logger) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		return openPostgres(ctx, cfg.Database, m, log)
	case config.StorageMongo:
		return openMongo(ctx, cfg.Mongo, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, m *metrics.Metrics, log Logger) (*Storage, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	log.Info("Connected to postgres (host=%s, port=%d, db=%s)", cfg.Host, cfg.Port, cfg.DBName)

	stopCh := make(chan struct{})
	wrapped := dbmetrics.WrapWithDefault(db, m, stopCh)

	return &Storage{
		Settings: settings.NewRepository(wrapped),
		Ledger:   ledger.NewRepository(wrapped),
		Zones:    zone.NewRepository(wrapped),
		Tx:       txmanager.NewTransactionManager(wrapped),
		pingFn:   wrapped.PingContext,
		closeFn: func() error {
			close(stopCh)
			return db.Close()
		},
	}, nil
}

func openMongo(ctx context.Context, cfg config.MongoConfig, log Logger) (*Storage, error) {
	store, err := mongostore.Connect(ctx, cfg.URI, cfg.Database, time.Duration(cfg.ConnectTimeout)*time.Second)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}
	log.Info("Connected to mongo (db=%s)", cfg.Database)

	return &Storage{
		Settings: store.Settings(),
		Ledger:   store.Ledger(),
		Zones:    store.Zones(),
		Tx:       store.TxManager(),
		pingFn:   store.Ping,
		closeFn: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return store.Close(ctx)
		},
	}, nil
}
