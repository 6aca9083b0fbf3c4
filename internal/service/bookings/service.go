package bookings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	ledgerRepo "github.com/m04kA/SMC-DeliveryScheduler/internal/infra/storage/ledger"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/bookings/models"
)

// Service сервис администрирования журнала бронирований
type Service struct {
	ledgerRepo LedgerRepository
	cache      CacheInvalidator
	publisher  EventPublisher
	logger     Logger
}

// NewService создает новый экземпляр сервиса бронирований
// cache и publisher могут быть nil
func NewService(
	ledgerRepo LedgerRepository,
	cache CacheInvalidator,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		ledgerRepo: ledgerRepo,
		cache:      cache,
		publisher:  publisher,
		logger:     logger,
	}
}

// List возвращает записи журнала магазина, отсортированные по дате, затем по слоту
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings for shop=%s", req.Shop)

	if strings.TrimSpace(req.Shop) == "" {
		return nil, fmt.Errorf("%w: shop is required", ErrInvalidInput)
	}
	if req.Date != nil {
		if _, err := time.Parse(domain.DateFormat, *req.Date); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}

	records, err := s.ledgerRepo.List(ctx, domain.BookingsFilter{Shop: req.Shop, Date: req.Date})
	if err != nil {
		s.logger.Error("List: repository error for shop=%s: %v", req.Shop, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	// Порядок слотов внутри даты по времени начала, а не по строке идентификатора
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return slotOrder(records[i].SlotID) < slotOrder(records[j].SlotID)
	})

	s.logger.Info("List: found %d bookings for shop=%s", len(records), req.Shop)
	return &models.BookingListResponse{Bookings: models.FromDomainBookings(records)}, nil
}

// CancelByOrder удаляет бронирования заказа; занятые ими места снова доступны
func (s *Service) CancelByOrder(ctx context.Context, req *models.CancelByOrderRequest) (*models.CancelResponse, error) {
	s.logger.Info("CancelByOrder: shop=%s, order=%s", req.Shop, req.OrderID)

	if strings.TrimSpace(req.Shop) == "" || strings.TrimSpace(req.OrderID) == "" {
		return nil, fmt.Errorf("%w: shop and orderId are required", ErrInvalidInput)
	}

	released, err := s.ledgerRepo.DeleteByOrder(ctx, req.Shop, req.OrderID)
	if err != nil {
		if errors.Is(err, ledgerRepo.ErrBookingNotFound) {
			s.logger.Warn("CancelByOrder: no bookings for order=%s", req.OrderID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("CancelByOrder: repository error for order=%s: %v", req.OrderID, err)
		return nil, fmt.Errorf("%w: CancelByOrder - repository error: %v", ErrInternal, err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, req.Shop); err != nil {
			s.logger.Warn("CancelByOrder: failed to invalidate cache for shop=%s: %v", req.Shop, err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.BookingCancelled(ctx, released); err != nil {
			s.logger.Warn("CancelByOrder: failed to publish event for order=%s: %v", req.OrderID, err)
		}
	}

	s.logger.Info("CancelByOrder: released %d bookings of order=%s", len(released), req.OrderID)
	return &models.CancelResponse{Released: models.FromDomainBookings(released)}, nil
}

func slotOrder(id domain.SlotID) string {
	// Идентификатор нормализован как HH:MM-HH:MM, но старые записи могут быть в виде H:MM
	if parsed, err := domain.ParseSlotID(id.String()); err == nil {
		return parsed.String()
	}
	return id.String()
}
