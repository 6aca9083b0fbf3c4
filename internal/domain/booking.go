package domain

import "time"

// BookingRecord зафиксированное бронирование слота доставки
// Запись никогда не изменяется; удаляется только при отмене заказа
type BookingRecord struct {
	ID         string
	Shop       string
	Date       string // YYYY-MM-DD
	SlotID     SlotID
	OrderID    string
	CustomerID string
	CreatedAt  time.Time
}

// SlotKey ключ учёта ёмкости: (магазин, дата, слот)
type SlotKey struct {
	Shop   string
	Date   string
	SlotID SlotID
}

// Key возвращает ключ учёта ёмкости для записи
func (b *BookingRecord) Key() SlotKey {
	return SlotKey{Shop: b.Shop, Date: b.Date, SlotID: b.SlotID}
}

// BookingsFilter фильтр для получения записей журнала бронирований
type BookingsFilter struct {
	Shop string  // Обязательный параметр
	Date *string // Фильтр по дате (опционально)
}
