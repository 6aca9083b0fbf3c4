package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/bookings/models"
)

type BookingsService interface {
	CancelByOrder(ctx context.Context, req *models.CancelByOrderRequest) (*models.CancelResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
