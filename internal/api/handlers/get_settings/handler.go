package get_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/middleware"
	settingsService "github.com/m04kA/SMC-DeliveryScheduler/internal/service/settings"
)

const msgMissingShop = "shop is required"

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/admin/delivery/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shop, ok := middleware.GetShop(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingShop)
		return
	}

	settings, err := h.service.Get(r.Context(), shop)
	if err != nil {
		if errors.Is(err, settingsService.ErrSettingsNotFound) {
			handlers.RespondJSON(w, http.StatusOK, GetSettingsResponse{Settings: nil})
			return
		}
		h.logger.Error("GET /admin/delivery/settings - Failed to get settings: shop=%s, error=%v", shop, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, GetSettingsResponse{Settings: settings})
}
