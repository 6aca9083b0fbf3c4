package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/types"
)

// Engine вычисляет доступность слотов доставки на горизонт бронирования
// Не хранит изменяемого состояния и безопасен для конкурентного использования
type Engine struct {
	defaultLocation *time.Location
}

// NewEngine создает движок доступности
// defaultLocation используется для магазинов без собственного часового пояса
func NewEngine(defaultLocation *time.Location) *Engine {
	if defaultLocation == nil {
		defaultLocation = time.UTC
	}
	return &Engine{defaultLocation: defaultLocation}
}

// Location возвращает часовой пояс, в котором считаются даты магазина
func (e *Engine) Location(settings *domain.DeliverySettings) *time.Location {
	if settings == nil {
		return e.defaultLocation
	}
	return settings.Location(e.defaultLocation)
}

// Horizon возвращает даты горизонта бронирования (YYYY-MM-DD), начиная с сегодняшней
func (e *Engine) Horizon(settings *domain.DeliverySettings, now time.Time) []string {
	local := now.In(e.Location(settings))
	dates := make([]string, 0, domain.HorizonDays)
	for i := 0; i < domain.HorizonDays; i++ {
		dates = append(dates, local.AddDate(0, 0, i).Format(domain.DateFormat))
	}
	return dates
}

// Compute вычисляет представление доступности
//
// Правила:
// - дни горизонта: сегодня + 6 дней в часовом поясе магазина
// - blackout-даты пропускаются целиком
// - сегодня: после cutoffSameDay слотов нет; до него предлагаются только ещё не начавшиеся слоты
// - завтра: после cutoffNextDay слотов нет
// - слот попадает в выдачу, только если capacity - count > 0
// - даты без слотов не попадают в выдачу
//
// settings == nil означает, что магазин не настроен: результат пустой, ошибки нет
func (e *Engine) Compute(
	ctx context.Context,
	settings *domain.DeliverySettings,
	now time.Time,
	counter BookingCounter,
) (domain.AvailabilityView, error) {
	view := domain.AvailabilityView{}
	if settings == nil || len(settings.TimeSlots) == 0 {
		return view, nil
	}

	local := now.In(e.Location(settings))
	nowTime := types.NewTimeString(local)

	for i, date := range e.Horizon(settings, now) {
		if settings.IsBlackout(date) {
			continue
		}
		if cutoffPassed(settings, i, nowTime) {
			continue
		}

		slots := make([]domain.AvailableSlot, 0, len(settings.TimeSlots))
		for _, slot := range settings.TimeSlots {
			// Сегодня предлагаем только слоты, которые ещё не начались
			if i == 0 && !nowTime.IsBefore(slot.StartTime) {
				continue
			}

			booked, err := counter.Count(ctx, settings.Shop, date, slot.ID())
			if err != nil {
				return nil, fmt.Errorf("%w: shop=%s date=%s slot=%s: %v", ErrCountBookings, settings.Shop, date, slot.ID(), err)
			}

			remaining := slot.Capacity - booked
			if domain.StateOf(slot.Capacity, booked) != domain.SlotOpen {
				continue
			}

			slots = append(slots, domain.AvailableSlot{
				ID:        slot.ID(),
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
				Capacity:  remaining,
			})
		}

		if len(slots) == 0 {
			continue
		}
		view = append(view, domain.DayAvailability{Date: date, Slots: slots})
	}

	return view, nil
}

// CheckOffered проверяет, что слот предлагается на дату без учёта ёмкости
// Возвращает настроенный слот или одну из ошибок ErrUnknownSlot, ErrBlackoutDate, ErrCutoffPassed, ErrOutsideHorizon
func (e *Engine) CheckOffered(
	settings *domain.DeliverySettings,
	now time.Time,
	date string,
	slotID domain.SlotID,
) (domain.TimeSlot, error) {
	slot, ok := settings.FindSlot(slotID)
	if !ok {
		return domain.TimeSlot{}, fmt.Errorf("%w: %s", ErrUnknownSlot, slotID)
	}

	dayIndex := -1
	for i, d := range e.Horizon(settings, now) {
		if d == date {
			dayIndex = i
			break
		}
	}
	if dayIndex < 0 {
		return domain.TimeSlot{}, fmt.Errorf("%w: %s", ErrOutsideHorizon, date)
	}

	if settings.IsBlackout(date) {
		return domain.TimeSlot{}, fmt.Errorf("%w: %s", ErrBlackoutDate, date)
	}

	nowTime := types.NewTimeString(now.In(e.Location(settings)))
	if cutoffPassed(settings, dayIndex, nowTime) {
		return domain.TimeSlot{}, fmt.Errorf("%w: %s", ErrCutoffPassed, date)
	}
	if dayIndex == 0 && !nowTime.IsBefore(slot.StartTime) {
		return domain.TimeSlot{}, fmt.Errorf("%w: slot %s has already started", ErrCutoffPassed, slotID)
	}

	return slot, nil
}

// cutoffPassed проверяет cutoff для дня с индексом dayIndex от сегодняшнего
func cutoffPassed(settings *domain.DeliverySettings, dayIndex int, nowTime types.TimeString) bool {
	var cutoff types.TimeString
	switch dayIndex {
	case 0:
		cutoff = settings.CutoffSameDay
	case 1:
		cutoff = settings.CutoffNextDay
	default:
		return false
	}

	if cutoff.IsZero() {
		return false
	}
	return !nowTime.IsBefore(cutoff)
}
