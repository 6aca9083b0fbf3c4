package zones

import (
	"context"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
)

// ZoneRepository интерфейс репозитория зон доставки
type ZoneRepository interface {
	ListByShop(ctx context.Context, shop string) ([]*domain.DeliveryZone, error)
	Create(ctx context.Context, z *domain.DeliveryZone) (*domain.DeliveryZone, error)
	Update(ctx context.Context, z *domain.DeliveryZone) (*domain.DeliveryZone, error)
	Delete(ctx context.Context, shop, id string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
