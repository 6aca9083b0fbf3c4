package commit_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
)

// validateRequest валидирует и нормализует входные данные запроса
func validateRequest(req *Request) (domain.SlotID, error) {
	req.Shop = strings.TrimSpace(req.Shop)
	req.OrderID = strings.TrimSpace(req.OrderID)
	req.CustomerID = strings.TrimSpace(req.CustomerID)

	if req.Shop == "" {
		return "", fmt.Errorf("%w: shop is required", ErrInvalidInput)
	}

	if req.OrderID == "" {
		return "", fmt.Errorf("%w: orderId is required", ErrInvalidInput)
	}
	if len(req.OrderID) > domain.MaxExternalIDLength || len(req.CustomerID) > domain.MaxExternalIDLength {
		return "", fmt.Errorf("%w: orderId and customerId must be at most %d characters", ErrInvalidInput, domain.MaxExternalIDLength)
	}

	if _, err := time.Parse(domain.DateFormat, req.Date); err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	slotID, err := domain.ParseSlotID(req.SlotID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return slotID, nil
}
