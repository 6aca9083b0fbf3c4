package delete_zone

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/middleware"
	zonesService "github.com/m04kA/SMC-DeliveryScheduler/internal/service/zones"
)

const (
	msgMissingShop  = "shop is required"
	msgMissingID    = "zone id is required"
	msgZoneNotFound = "zone not found"
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

// Handle DELETE /api/admin/zones/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shop, ok := middleware.GetShop(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingShop)
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.service.Delete(r.Context(), shop, id); err != nil {
		switch {
		case errors.Is(err, zonesService.ErrZoneNotFound):
			handlers.RespondNotFound(w, msgZoneNotFound)

		case errors.Is(err, zonesService.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgMissingID)

		default:
			h.logger.Error("DELETE /admin/zones/{id} - Failed to delete zone: shop=%s, id=%s, error=%v", shop, id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondSuccess(w)
}
