package save_zone

import (
	"context"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/zones/models"
)

type ZonesService interface {
	Save(ctx context.Context, req *models.SaveZoneRequest) (*models.ZoneResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
