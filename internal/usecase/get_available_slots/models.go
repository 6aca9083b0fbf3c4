package get_available_slots

import (
	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Shop string // домен магазина, например "demo.myshopify.com"
}

// Response модель ответа с доступностью на горизонт бронирования
type Response struct {
	Shop       string
	Configured bool // false, если у магазина нет настроек доставки
	Available  domain.AvailabilityView
}
