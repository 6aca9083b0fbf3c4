package events

import "errors"

var (
	// ErrPublish возвращается при ошибке публикации события
	ErrPublish = errors.New("events: failed to publish")

	// ErrSetup возвращается при ошибке объявления exchange
	ErrSetup = errors.New("events: failed to declare exchange")
)
