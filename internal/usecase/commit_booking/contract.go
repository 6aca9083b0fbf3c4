package commit_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек доставки
type SettingsRepository interface {
	Get(ctx context.Context, shop string) (*domain.DeliverySettings, error)
}

// LedgerRepository интерфейс журнала бронирований
type LedgerRepository interface {
	// LockSlot сериализует конкурентные фиксации одного ключа до конца транзакции
	LockSlot(ctx context.Context, key domain.SlotKey) error
	Count(ctx context.Context, shop, date string, slotID domain.SlotID) (int, error)
	Append(ctx context.Context, record *domain.BookingRecord) (*domain.BookingRecord, error)
}

// Engine интерфейс движка доступности
type Engine interface {
	CheckOffered(settings *domain.DeliverySettings, now time.Time, date string, slotID domain.SlotID) (domain.TimeSlot, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// CacheInvalidator сбрасывает закешированную доступность магазина (опционально)
type CacheInvalidator interface {
	Invalidate(ctx context.Context, shop string) error
}

// EventPublisher публикует события бронирований (опционально)
type EventPublisher interface {
	BookingCommitted(ctx context.Context, record *domain.BookingRecord) error
}

// Metrics интерфейс метрик бронирований
type Metrics interface {
	IncBooking(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
