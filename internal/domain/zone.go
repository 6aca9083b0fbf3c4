package domain

import "time"

// ZoneAddress адрес зоны доставки; все поля опциональны
type ZoneAddress struct {
	Street   string
	City     string
	Province string
	Country  string
	Zip      string
}

// DeliveryZone географическая зона доставки магазина
type DeliveryZone struct {
	ID           string
	Shop         string
	Name         string
	Address      ZoneAddress
	ShippingRate float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
