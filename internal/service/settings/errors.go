package settings

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда у магазина нет настроек доставки
	ErrSettingsNotFound = errors.New("settings not found")

	// ErrInvalidInput возвращается при некорректных настройках (InvalidSlotDefinition)
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
