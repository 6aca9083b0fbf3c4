package availability

import (
	"context"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
)

// Counts снимок количества бронирований магазина, загруженный одним запросом
// Реализует BookingCounter; отсутствующий ключ означает 0 бронирований
type Counts map[domain.SlotKey]int

// Count возвращает количество бронирований по ключу
func (c Counts) Count(_ context.Context, shop, date string, slotID domain.SlotID) (int, error) {
	return c[domain.SlotKey{Shop: shop, Date: date, SlotID: slotID}], nil
}
