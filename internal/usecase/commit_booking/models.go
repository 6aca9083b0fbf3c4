package commit_booking

import "time"

// Request модель запроса на фиксацию бронирования слота при оформлении заказа
type Request struct {
	Shop       string // домен магазина
	Date       string // YYYY-MM-DD
	SlotID     string // "HH:MM-HH:MM", допускается "H:MM"
	OrderID    string // ID заказа
	CustomerID string // ID покупателя (опционально)
}

// Response модель ответа с зафиксированным бронированием
type Response struct {
	ID         string
	Shop       string
	Date       string
	SlotID     string
	OrderID    string
	CustomerID string
	Remaining  int // оставшаяся ёмкость слота после фиксации
	CreatedAt  time.Time
}
