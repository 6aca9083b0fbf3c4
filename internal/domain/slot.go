package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-DeliveryScheduler/pkg/types"
)

// ErrInvalidSlotID возвращается при некорректном идентификаторе слота
var ErrInvalidSlotID = errors.New("invalid slot id")

// SlotID детерминированный идентификатор слота "HH:MM-HH:MM"
// Всегда строится из нормализованных значений времени, поэтому "9:00-11:00" и "09:00-11:00" совпадают
type SlotID string

// NewSlotID строит идентификатор из нормализованных времён начала и конца
func NewSlotID(start, end types.TimeString) SlotID {
	return SlotID(start.String() + "-" + end.String())
}

// ParseSlotID разбирает и нормализует идентификатор слота
func ParseSlotID(s string) (SlotID, error) {
	startRaw, endRaw, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlotID, s)
	}

	start, err := types.NewTimeStringFromString(startRaw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidSlotID, s, err)
	}
	end, err := types.NewTimeStringFromString(endRaw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidSlotID, s, err)
	}

	return NewSlotID(start, end), nil
}

func (id SlotID) String() string {
	return string(id)
}

// SlotState производное состояние пары (дата, слот); нигде не хранится
type SlotState string

const (
	SlotOpen SlotState = "open"
	SlotFull SlotState = "full"
)

// StateOf вычисляет состояние слота по ёмкости и числу бронирований
func StateOf(capacity, booked int) SlotState {
	if capacity-booked > 0 {
		return SlotOpen
	}
	return SlotFull
}

// AvailableSlot слот, который ещё можно забронировать
// Capacity здесь это ОСТАВШАЯСЯ ёмкость
type AvailableSlot struct {
	ID        SlotID
	StartTime types.TimeString
	EndTime   types.TimeString
	Capacity  int
}

// DayAvailability открытые слоты на одну дату
type DayAvailability struct {
	Date  string // YYYY-MM-DD
	Slots []AvailableSlot
}

// AvailabilityView вычисленное представление доступности на горизонт бронирования
// Даты по возрастанию, слоты в порядке настроек
type AvailabilityView []DayAvailability

// Find возвращает слот на дату, если он открыт
func (v AvailabilityView) Find(date string, id SlotID) (AvailableSlot, bool) {
	for _, day := range v {
		if day.Date != date {
			continue
		}
		for _, slot := range day.Slots {
			if slot.ID == id {
				return slot, true
			}
		}
	}
	return AvailableSlot{}, false
}
