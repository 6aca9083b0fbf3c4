package bookings

import (
	"context"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
)

// LedgerRepository интерфейс журнала бронирований
type LedgerRepository interface {
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingRecord, error)
	DeleteByOrder(ctx context.Context, shop, orderID string) ([]*domain.BookingRecord, error)
}

// CacheInvalidator сбрасывает закешированную доступность магазина
type CacheInvalidator interface {
	Invalidate(ctx context.Context, shop string) error
}

// EventPublisher публикует события об отменённых бронированиях
type EventPublisher interface {
	BookingCancelled(ctx context.Context, records []*domain.BookingRecord) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
