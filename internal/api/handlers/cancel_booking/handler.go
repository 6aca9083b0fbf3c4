package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/middleware"
	bookingsService "github.com/m04kA/SMC-DeliveryScheduler/internal/service/bookings"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/bookings/models"
)

const (
	msgMissingShop     = "shop is required"
	msgMissingOrderID  = "orderId is required"
	msgBookingNotFound = "no bookings for this order"
)

type Handler struct {
	service BookingsService
	logger  Logger
}

func NewHandler(service BookingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/admin/delivery/bookings/{orderId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shop, ok := middleware.GetShop(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingShop)
		return
	}

	orderID := mux.Vars(r)["orderId"]
	if orderID == "" {
		handlers.RespondBadRequest(w, msgMissingOrderID)
		return
	}

	result, err := h.service.CancelByOrder(r.Context(), &models.CancelByOrderRequest{Shop: shop, OrderID: orderID})
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrBookingNotFound):
			h.logger.Warn("DELETE /admin/delivery/bookings/{orderId} - Not found: shop=%s, order=%s", shop, orderID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookingsService.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgMissingOrderID)

		default:
			h.logger.Error("DELETE /admin/delivery/bookings/{orderId} - Failed to cancel: shop=%s, order=%s, error=%v",
				shop, orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/delivery/bookings/{orderId} - Released %d bookings: shop=%s, order=%s",
		len(result.Released), shop, orderID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
