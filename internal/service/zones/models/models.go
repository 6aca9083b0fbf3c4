package models

import (
	"strings"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
)

// Request модели

// AddressInput адрес зоны; все поля опциональны
type AddressInput struct {
	Street   string `json:"street" validate:"max=255"`
	City     string `json:"city" validate:"max=255"`
	Province string `json:"province" validate:"max=255"`
	Country  string `json:"country" validate:"max=255"`
	Zip      string `json:"zip" validate:"max=32"`
}

// SaveZoneRequest создание (без id) или обновление (с id) зоны
type SaveZoneRequest struct {
	Shop         string       `json:"-" validate:"required,max=255"`
	ID           string       `json:"id,omitempty"`
	Name         string       `json:"name" validate:"required,max=200"`
	Address      AddressInput `json:"address"`
	ShippingRate float64      `json:"shippingRate" validate:"gte=0"`
}

// ToDomain конвертирует запрос в domain модель
func (r *SaveZoneRequest) ToDomain() *domain.DeliveryZone {
	return &domain.DeliveryZone{
		ID:   strings.TrimSpace(r.ID),
		Shop: r.Shop,
		Name: strings.TrimSpace(r.Name),
		Address: domain.ZoneAddress{
			Street:   r.Address.Street,
			City:     r.Address.City,
			Province: r.Address.Province,
			Country:  r.Address.Country,
			Zip:      r.Address.Zip,
		},
		ShippingRate: r.ShippingRate,
	}
}

// Response модели

// AddressResponse адрес зоны в ответе
type AddressResponse struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	Province string `json:"province"`
	Country  string `json:"country"`
	Zip      string `json:"zip"`
}

// ZoneResponse зона доставки
type ZoneResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Address      AddressResponse `json:"address"`
	ShippingRate float64         `json:"shippingRate"`
}

// ZoneListResponse список зон магазина
type ZoneListResponse struct {
	Zones []ZoneResponse `json:"zones"`
}

// FromDomainZone конвертирует domain модель в DTO
func FromDomainZone(z *domain.DeliveryZone) ZoneResponse {
	return ZoneResponse{
		ID:   z.ID,
		Name: z.Name,
		Address: AddressResponse{
			Street:   z.Address.Street,
			City:     z.Address.City,
			Province: z.Address.Province,
			Country:  z.Address.Country,
			Zip:      z.Address.Zip,
		},
		ShippingRate: z.ShippingRate,
	}
}
