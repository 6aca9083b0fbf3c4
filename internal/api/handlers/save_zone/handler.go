package save_zone

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/middleware"
	zonesService "github.com/m04kA/SMC-DeliveryScheduler/internal/service/zones"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/zones/models"
)

const (
	msgMissingShop        = "shop is required"
	msgInvalidRequestBody = "invalid request body"
	msgZoneNotFound       = "zone not found"
)

type Handler struct {
	service ZonesService
	logger  Logger
}

func NewHandler(service ZonesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/admin/zones
// Без id создаёт зону, с id обновляет существующую
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shop, ok := middleware.GetShop(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingShop)
		return
	}

	var req models.SaveZoneRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/zones - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.Shop = shop

	zone, err := h.service.Save(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, zonesService.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, zonesService.ErrZoneNotFound):
			handlers.RespondNotFound(w, msgZoneNotFound)

		default:
			h.logger.Error("POST /admin/zones - Failed to save zone: shop=%s, error=%v", shop, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, SaveZoneResponse{Success: true, Zone: zone})
}
