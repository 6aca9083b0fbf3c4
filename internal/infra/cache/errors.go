package cache

import "errors"

var (
	// ErrCacheRead возвращается при ошибке чтения из Redis
	ErrCacheRead = errors.New("cache: failed to read")

	// ErrCacheWrite возвращается при ошибке записи в Redis
	ErrCacheWrite = errors.New("cache: failed to write")

	// ErrDecode возвращается, когда закешированное значение не удалось разобрать
	ErrDecode = errors.New("cache: failed to decode cached view")
)
