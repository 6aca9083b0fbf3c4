package models

import (
	"time"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
)

// Request модели

// TimeSlotInput слот доставки в запросе на сохранение
type TimeSlotInput struct {
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"required,hhmm"`
	Capacity  int    `json:"capacity" validate:"min=1,max=10000"`
}

// SaveSettingsRequest запрос на сохранение настроек (полная замена)
type SaveSettingsRequest struct {
	Shop          string          `json:"-" validate:"required,max=255"`
	BlackoutDates []string        `json:"blackoutDates" validate:"max=730,dive,datetime=2006-01-02"`
	TimeSlots     []TimeSlotInput `json:"timeSlots" validate:"max=96,dive"`
	CutoffSameDay string          `json:"cutoffSameDay" validate:"omitempty,hhmm"`
	CutoffNextDay string          `json:"cutoffNextDay" validate:"omitempty,hhmm"`
	Timezone      string          `json:"timezone" validate:"omitempty,timezone"`
}

// Response модели

// TimeSlotResponse слот доставки в ответе
type TimeSlotResponse struct {
	ID        string `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Capacity  int    `json:"capacity"`
}

// SettingsResponse настройки доставки магазина
type SettingsResponse struct {
	Shop          string             `json:"shop"`
	BlackoutDates []string           `json:"blackoutDates"`
	TimeSlots     []TimeSlotResponse `json:"timeSlots"`
	CutoffSameDay string             `json:"cutoffSameDay"`
	CutoffNextDay string             `json:"cutoffNextDay"`
	Timezone      string             `json:"timezone"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// Методы конвертации

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.DeliverySettings) *SettingsResponse {
	if s == nil {
		return nil
	}

	slots := make([]TimeSlotResponse, 0, len(s.TimeSlots))
	for _, slot := range s.TimeSlots {
		slots = append(slots, TimeSlotResponse{
			ID:        slot.ID().String(),
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
			Capacity:  slot.Capacity,
		})
	}

	blackoutDates := s.BlackoutDates
	if blackoutDates == nil {
		blackoutDates = []string{}
	}

	return &SettingsResponse{
		Shop:          s.Shop,
		BlackoutDates: blackoutDates,
		TimeSlots:     slots,
		CutoffSameDay: s.CutoffSameDay.String(),
		CutoffNextDay: s.CutoffNextDay.String(),
		Timezone:      s.Timezone,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
