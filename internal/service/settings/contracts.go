package settings

import (
	"context"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек доставки
type SettingsRepository interface {
	Get(ctx context.Context, shop string) (*domain.DeliverySettings, error)
	Save(ctx context.Context, settings *domain.DeliverySettings) (*domain.DeliverySettings, error)
}

// CacheInvalidator сбрасывает закешированную доступность магазина (опционально)
type CacheInvalidator interface {
	Invalidate(ctx context.Context, shop string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
