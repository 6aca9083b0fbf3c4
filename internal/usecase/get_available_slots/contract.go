package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/availability"
)

// SettingsRepository интерфейс репозитория настроек доставки
type SettingsRepository interface {
	Get(ctx context.Context, shop string) (*domain.DeliverySettings, error)
}

// LedgerRepository интерфейс журнала бронирований
type LedgerRepository interface {
	// CountRange количество бронирований по всем слотам магазина в диапазоне дат [from, to]
	CountRange(ctx context.Context, shop, from, to string) (map[domain.SlotKey]int, error)
}

// Engine интерфейс движка доступности
type Engine interface {
	Horizon(settings *domain.DeliverySettings, now time.Time) []string
	Compute(ctx context.Context, settings *domain.DeliverySettings, now time.Time, counter availability.BookingCounter) (domain.AvailabilityView, error)
}

// AvailabilityCache интерфейс кеша представлений доступности (опционально)
// Get возвращает версию магазина, под которой Set должен сохранить вычисленное представление
type AvailabilityCache interface {
	Get(ctx context.Context, shop string, now time.Time) (domain.AvailabilityView, int64, bool, error)
	Set(ctx context.Context, shop string, version int64, now time.Time, view domain.AvailabilityView) error
}

// Metrics интерфейс метрик кеша
type Metrics interface {
	IncAvailabilityCache(result string)
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
