package list_zones

import (
	"net/http"
	"strings"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/middleware"
)

const msgMissingShop = "shop is required"

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

// HandleStorefront GET /api/storefront/zones?shop=
func (h *Handler) HandleStorefront(w http.ResponseWriter, r *http.Request) {
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shop == "" {
		handlers.RespondBadRequest(w, msgMissingShop)
		return
	}
	h.respond(w, r, shop)
}

// HandleAdmin GET /api/admin/zones
func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	shop, ok := middleware.GetShop(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingShop)
		return
	}
	h.respond(w, r, shop)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, shop string) {
	result, err := h.service.List(r.Context(), shop)
	if err != nil {
		h.logger.Error("%s %s - Failed to list zones: shop=%s, error=%v", r.Method, r.URL.Path, shop, err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}
