package availability

import (
	"context"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
)

// BookingCounter источник количества бронирований по ключу (магазин, дата, слот)
type BookingCounter interface {
	Count(ctx context.Context, shop, date string, slotID domain.SlotID) (int, error)
}
