package zones

import "errors"

var (
	// ErrZoneNotFound возвращается, когда зона не найдена у магазина
	ErrZoneNotFound = errors.New("zone not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
