package domain

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-DeliveryScheduler/pkg/types"
)

// TimeSlot настроенное окно доставки
type TimeSlot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Capacity  int // максимальное число бронирований на одну дату
}

// ID возвращает детерминированный идентификатор слота
func (s TimeSlot) ID() SlotID {
	return NewSlotID(s.StartTime, s.EndTime)
}

// DeliverySettings настройки доставки магазина (одна запись на магазин)
type DeliverySettings struct {
	Shop          string
	BlackoutDates []string // YYYY-MM-DD, отсортированы, без повторов
	TimeSlots     []TimeSlot
	CutoffSameDay types.TimeString // пусто = без ограничения
	CutoffNextDay types.TimeString // пусто = без ограничения
	Timezone      string           // IANA, пусто = часовой пояс по умолчанию
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsBlackout возвращает true, если на дату доставка закрыта
func (s *DeliverySettings) IsBlackout(date string) bool {
	for _, d := range s.BlackoutDates {
		if d == date {
			return true
		}
	}
	return false
}

// FindSlot ищет слот по идентификатору
func (s *DeliverySettings) FindSlot(id SlotID) (TimeSlot, bool) {
	for _, slot := range s.TimeSlots {
		if slot.ID() == id {
			return slot, true
		}
	}
	return TimeSlot{}, false
}

// Location возвращает часовой пояс магазина, либо fallback, если он не задан или некорректен
func (s *DeliverySettings) Location(fallback *time.Location) *time.Location {
	if s.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}

// Normalize приводит настройки к каноническому виду:
// даты отсортированы и без повторов, слоты отсортированы по (начало, конец)
func (s *DeliverySettings) Normalize() {
	seen := make(map[string]struct{}, len(s.BlackoutDates))
	dates := make([]string, 0, len(s.BlackoutDates))
	for _, d := range s.BlackoutDates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	sort.Strings(dates)
	s.BlackoutDates = dates

	sort.SliceStable(s.TimeSlots, func(i, j int) bool {
		a, b := s.TimeSlots[i], s.TimeSlots[j]
		if a.StartTime.Minutes() != b.StartTime.Minutes() {
			return a.StartTime.Minutes() < b.StartTime.Minutes()
		}
		return a.EndTime.Minutes() < b.EndTime.Minutes()
	})
}
