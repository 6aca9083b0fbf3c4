package list_zones

import (
	"context"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/zones/models"
)

type ZonesService interface {
	List(ctx context.Context, shop string) (*models.ZoneListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
