package get_available_slots

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/middleware"
	getAvailableSlots "github.com/m04kA/SMC-DeliveryScheduler/internal/usecase/get_available_slots"
)

const (
	msgMissingShop        = "shop is required"
	msgInvalidShop        = "invalid shop"
	msgStorageUnavailable = "delivery schedule is temporarily unavailable"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleStorefront GET /api/storefront/slots?shop=
func (h *Handler) HandleStorefront(w http.ResponseWriter, r *http.Request) {
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shop == "" {
		h.logger.Warn("GET /storefront/slots - Missing shop")
		handlers.RespondBadRequest(w, msgMissingShop)
		return
	}
	h.respond(w, r, shop)
}

// HandleAdmin POST /api/admin/delivery/slots
// Предпросмотр для админки: магазин из сессионного токена
func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	shop, ok := middleware.GetShop(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingShop)
		return
	}
	h.respond(w, r, shop)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, shop string) {
	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{Shop: shop})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("%s %s - Invalid shop: shop=%s", r.Method, r.URL.Path, shop)
			handlers.RespondBadRequest(w, msgInvalidShop)

		case errors.Is(err, getAvailableSlots.ErrStorageUnavailable):
			h.logger.Error("%s %s - Storage unavailable: shop=%s, error=%v", r.Method, r.URL.Path, shop, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgStorageUnavailable)

		default:
			h.logger.Error("%s %s - Failed to get slots: shop=%s, error=%v", r.Method, r.URL.Path, shop, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s %s - Slots retrieved: shop=%s, days=%d", r.Method, r.URL.Path, shop, len(result.Available))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
