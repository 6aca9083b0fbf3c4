package models

import (
	"time"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
)

// Request модели

// ListBookingsRequest запрос на получение журнала бронирований магазина
type ListBookingsRequest struct {
	Shop string
	Date *string // YYYY-MM-DD, опционально
}

// CancelByOrderRequest запрос на отмену бронирований заказа
type CancelByOrderRequest struct {
	Shop    string
	OrderID string
}

// Response модели

// BookingResponse запись журнала бронирований
type BookingResponse struct {
	ID         string    `json:"id"`
	Shop       string    `json:"shop"`
	Date       string    `json:"date"`
	SlotID     string    `json:"slotId"`
	OrderID    string    `json:"orderId"`
	CustomerID string    `json:"customerId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BookingListResponse список записей журнала
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CancelResponse результат отмены заказа
type CancelResponse struct {
	Released []BookingResponse `json:"released"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.BookingRecord) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		Shop:       b.Shop,
		Date:       b.Date,
		SlotID:     b.SlotID.String(),
		OrderID:    b.OrderID,
		CustomerID: b.CustomerID,
		CreatedAt:  b.CreatedAt,
	}
}

// FromDomainBookings конвертирует список domain моделей в DTO
func FromDomainBookings(records []*domain.BookingRecord) []BookingResponse {
	result := make([]BookingResponse, 0, len(records))
	for _, r := range records {
		result = append(result, FromDomainBooking(r))
	}
	return result
}
