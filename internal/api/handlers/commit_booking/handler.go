package commit_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers"
	commitBooking "github.com/m04kA/SMC-DeliveryScheduler/internal/usecase/commit_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgSlotNotAvailable   = "slot no longer available"
	msgSlotNotOffered     = "slot is not offered on this date"
	msgShopNotConfigured  = "shop has no delivery settings"
)

type Handler struct {
	useCase CommitBookingUseCase
	logger  Logger
}

func NewHandler(useCase CommitBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/storefront/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CommitBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /storefront/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, commitBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /storefront/bookings - Slot full: shop=%s, date=%s, slot=%s, order=%s",
				req.Shop, req.Date, req.SlotID, req.OrderID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, commitBooking.ErrSlotNotOffered):
			h.logger.Warn("POST /storefront/bookings - Slot not offered: shop=%s, date=%s, slot=%s", req.Shop, req.Date, req.SlotID)
			handlers.RespondBadRequest(w, msgSlotNotOffered)

		case errors.Is(err, commitBooking.ErrSettingsNotFound):
			h.logger.Warn("POST /storefront/bookings - Shop not configured: shop=%s", req.Shop)
			handlers.RespondNotFound(w, msgShopNotConfigured)

		case errors.Is(err, commitBooking.ErrInvalidInput):
			h.logger.Warn("POST /storefront/bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /storefront/bookings - Failed to commit booking: shop=%s, order=%s, error=%v",
				req.Shop, req.OrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /storefront/bookings - Booking committed: id=%s, shop=%s, order=%s",
		result.ID, result.Shop, result.OrderID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
