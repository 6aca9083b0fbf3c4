package list_bookings

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/middleware"
	bookingsService "github.com/m04kA/SMC-DeliveryScheduler/internal/service/bookings"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/bookings/models"
)

const (
	msgMissingShop = "shop is required"
	msgInvalidDate = "date must be YYYY-MM-DD"
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

// Handle GET /api/admin/delivery/bookings
// Query params: date (optional, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shop, ok := middleware.GetShop(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingShop)
		return
	}

	req := &models.ListBookingsRequest{Shop: shop}
	if date := strings.TrimSpace(r.URL.Query().Get("date")); date != "" {
		req.Date = &date
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, bookingsService.ErrInvalidInput) {
			h.logger.Warn("GET /admin/delivery/bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		h.logger.Error("GET /admin/delivery/bookings - Failed to list bookings: shop=%s, error=%v", shop, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
