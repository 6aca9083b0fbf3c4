package commit_booking

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда у магазина нет настроек доставки
	ErrSettingsNotFound = errors.New("commit_booking: shop is not configured")

	// ErrSlotNotOffered возвращается, когда слот не предлагается на дату
	// (неизвестный слот, blackout, истёк cutoff, дата вне горизонта)
	ErrSlotNotOffered = errors.New("commit_booking: slot is not offered on this date")

	// ErrSlotNotAvailable возвращается, когда слот заполнился между чтением и фиксацией
	// Повторяемая ситуация: клиенту нужно выбрать другой слот
	ErrSlotNotAvailable = errors.New("commit_booking: slot no longer available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("commit_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("commit_booking: internal error")
)
