package settings

import (
	"fmt"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/types"
)

// ToStoredSlots переводит слоты в формат хранения
func ToStoredSlots(slots []domain.TimeSlot) []domain.StoredSlot {
	stored := make([]domain.StoredSlot, 0, len(slots))
	for _, s := range slots {
		stored = append(stored, domain.StoredSlot{
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
			Capacity:  s.Capacity,
		})
	}
	return stored
}

// FromStoredSlots разбирает слоты из хранилища
// Слоты старого формата {time, capacity} считаются ошибкой: их нужно сначала мигрировать
func FromStoredSlots(stored []domain.StoredSlot) ([]domain.TimeSlot, error) {
	slots := make([]domain.TimeSlot, 0, len(stored))
	for _, s := range stored {
		if _, legacy := s.Legacy(); legacy {
			return nil, fmt.Errorf("%w: legacy slot %q, run the migration", ErrEncodeSlots, s.Time)
		}

		start, err := types.NewTimeStringFromString(s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: startTime: %v", ErrEncodeSlots, err)
		}
		end, err := types.NewTimeStringFromString(s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: endTime: %v", ErrEncodeSlots, err)
		}

		slots = append(slots, domain.TimeSlot{StartTime: start, EndTime: end, Capacity: s.Capacity})
	}
	return slots, nil
}
