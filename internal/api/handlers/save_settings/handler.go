package save_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/middleware"
	settingsService "github.com/m04kA/SMC-DeliveryScheduler/internal/service/settings"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/settings/models"
)

const (
	msgMissingShop        = "shop is required"
	msgInvalidRequestBody = "invalid request body"
)

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

// Handle POST /api/admin/delivery/settings
// Полная замена настроек магазина
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shop, ok := middleware.GetShop(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingShop)
		return
	}

	var req models.SaveSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/delivery/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.Shop = shop

	if _, err := h.service.Save(r.Context(), &req); err != nil {
		if errors.Is(err, settingsService.ErrInvalidInput) {
			h.logger.Warn("POST /admin/delivery/settings - Invalid settings: shop=%s, error=%v", shop, err)
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("POST /admin/delivery/settings - Failed to save settings: shop=%s, error=%v", shop, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/delivery/settings - Settings saved: shop=%s", shop)
	handlers.RespondSuccess(w)
}
