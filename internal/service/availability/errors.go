package availability

import "errors"

var (
	// ErrCountBookings возвращается, когда журнал бронирований недоступен
	ErrCountBookings = errors.New("availability: failed to count bookings")

	// ErrUnknownSlot возвращается, когда слот не настроен в магазине
	ErrUnknownSlot = errors.New("slot is not configured")

	// ErrBlackoutDate возвращается, когда дата закрыта для доставки
	ErrBlackoutDate = errors.New("date is a blackout date")

	// ErrCutoffPassed возвращается, когда время приёма заказов на дату истекло
	ErrCutoffPassed = errors.New("cutoff for this date has passed")

	// ErrOutsideHorizon возвращается, когда дата вне горизонта бронирования
	ErrOutsideHorizon = errors.New("date is outside the booking horizon")
)
