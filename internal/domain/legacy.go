package domain

import (
	"fmt"

	"github.com/m04kA/SMC-DeliveryScheduler/pkg/types"
)

// LegacyTimeSlot слот старого формата {time, capacity}
type LegacyTimeSlot struct {
	Time     string
	Capacity int
}

// StoredSlot слот в том виде, в котором он лежит в хранилище
// Заполнено либо Time (старый формат), либо StartTime/EndTime
type StoredSlot struct {
	Time      string `json:"time,omitempty" bson:"time,omitempty"`
	StartTime string `json:"startTime,omitempty" bson:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty" bson:"endTime,omitempty"`
	Capacity  int    `json:"capacity" bson:"capacity"`
}

// Legacy возвращает слот старого формата, если запись в нём хранится
func (s StoredSlot) Legacy() (LegacyTimeSlot, bool) {
	if s.Time == "" || s.StartTime != "" {
		return LegacyTimeSlot{}, false
	}
	return LegacyTimeSlot{Time: s.Time, Capacity: s.Capacity}, true
}

// ShopStoredSlots сырые слоты магазина для миграции
type ShopStoredSlots struct {
	Shop  string
	Slots []StoredSlot
}

// ConvertLegacySlot переводит слот старого формата в {startTime, endTime, capacity}
// EndTime = Time + durationMinutes; при выходе за пределы суток EndTime = 23:59
func ConvertLegacySlot(legacy LegacyTimeSlot, durationMinutes int) (TimeSlot, error) {
	start, err := types.NewTimeStringFromString(legacy.Time)
	if err != nil {
		return TimeSlot{}, fmt.Errorf("legacy slot %q: %w", legacy.Time, err)
	}
	if durationMinutes <= 0 {
		durationMinutes = DefaultLegacySlotMinutes
	}

	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		end = types.TimeString("23:59")
	}
	if !start.IsBefore(end) {
		return TimeSlot{}, fmt.Errorf("legacy slot %q: no room for a window before midnight", legacy.Time)
	}

	return TimeSlot{
		StartTime: start,
		EndTime:   end,
		Capacity:  legacy.Capacity,
	}, nil
}
