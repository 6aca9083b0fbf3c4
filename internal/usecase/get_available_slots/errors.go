package get_available_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrStorageUnavailable возвращается, когда хранилище настроек или журнал недоступны
	ErrStorageUnavailable = errors.New("get_available_slots: storage unavailable")
)
