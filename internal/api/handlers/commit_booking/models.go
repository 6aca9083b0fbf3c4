package commit_booking

import (
	"time"

	commitBooking "github.com/m04kA/SMC-DeliveryScheduler/internal/usecase/commit_booking"
)

// CommitBookingRequest HTTP request model
type CommitBookingRequest struct {
	Shop       string `json:"shop"`
	Date       string `json:"date"`   // "2024-06-03"
	SlotID     string `json:"slotId"` // "14:00-16:00"
	OrderID    string `json:"orderId"`
	CustomerID string `json:"customerId"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         string `json:"id"`
	Shop       string `json:"shop"`
	Date       string `json:"date"`
	SlotID     string `json:"slotId"`
	OrderID    string `json:"orderId"`
	CustomerID string `json:"customerId"`
	Remaining  int    `json:"remaining"`
	CreatedAt  string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CommitBookingRequest) ToUseCaseRequest() *commitBooking.Request {
	return &commitBooking.Request{
		Shop:       r.Shop,
		Date:       r.Date,
		SlotID:     r.SlotID,
		OrderID:    r.OrderID,
		CustomerID: r.CustomerID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *commitBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:         resp.ID,
		Shop:       resp.Shop,
		Date:       resp.Date,
		SlotID:     resp.SlotID,
		OrderID:    resp.OrderID,
		CustomerID: resp.CustomerID,
		Remaining:  resp.Remaining,
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
	}
}
