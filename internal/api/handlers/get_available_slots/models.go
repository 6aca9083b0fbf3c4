package get_available_slots

import (
	getAvailableSlots "github.com/m04kA/SMC-DeliveryScheduler/internal/usecase/get_available_slots"
)

// SlotResponse открытый слот; capacity это оставшиеся места
type SlotResponse struct {
	SlotID    string `json:"slotId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Capacity  int    `json:"capacity"`
}

// DayResponse открытые слоты на дату
type DayResponse struct {
	Date  string         `json:"date"`
	Slots []SlotResponse `json:"slots"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Available []DayResponse `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	days := make([]DayResponse, 0, len(resp.Available))
	for _, day := range resp.Available {
		slots := make([]SlotResponse, 0, len(day.Slots))
		for _, slot := range day.Slots {
			slots = append(slots, SlotResponse{
				SlotID:    slot.ID.String(),
				StartTime: slot.StartTime.String(),
				EndTime:   slot.EndTime.String(),
				Capacity:  slot.Capacity,
			})
		}
		days = append(days, DayResponse{Date: day.Date, Slots: slots})
	}
	return &AvailableSlotsResponse{Available: days}
}
