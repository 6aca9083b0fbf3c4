package save_zone

import "github.com/m04kA/SMC-DeliveryScheduler/internal/service/zones/models"

// SaveZoneResponse HTTP response model
type SaveZoneResponse struct {
	Success bool                 `json:"success"`
	Zone    *models.ZoneResponse `json:"zone"`
}
