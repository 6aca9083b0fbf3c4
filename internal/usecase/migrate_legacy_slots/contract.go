package migrate_legacy_slots

import (
	"context"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
)

// SettingsRepository доступ к сырым слотам настроек
type SettingsRepository interface {
	ListStoredSlots(ctx context.Context) ([]domain.ShopStoredSlots, error)
	ReplaceTimeSlots(ctx context.Context, shop string, slots []domain.TimeSlot) error
}

// LedgerRepository перенос бронирований на новый идентификатор слота
type LedgerRepository interface {
	RekeySlot(ctx context.Context, shop, fromSlotID string, toSlotID domain.SlotID) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
