package get_settings

import "github.com/m04kA/SMC-DeliveryScheduler/internal/service/settings/models"

// GetSettingsResponse настройки магазина; settings = null, если магазин ещё не настроен
type GetSettingsResponse struct {
	Settings *models.SettingsResponse `json:"settings"`
}
