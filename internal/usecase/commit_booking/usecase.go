package commit_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	settingsRepo "github.com/m04kA/SMC-DeliveryScheduler/internal/infra/storage/settings"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/metrics"
)

// UseCase use case для атомарной фиксации бронирования слота доставки
type UseCase struct {
	settingsRepo SettingsRepository
	ledgerRepo   LedgerRepository
	engine       Engine
	txManager    TransactionManager
	cache        CacheInvalidator
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// cache и publisher могут быть nil
func NewUseCase(
	settingsRepo SettingsRepository,
	ledgerRepo LedgerRepository,
	engine Engine,
	txManager TransactionManager,
	cache CacheInvalidator,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		settingsRepo: settingsRepo,
		ledgerRepo:   ledgerRepo,
		engine:       engine,
		txManager:    txManager,
		cache:        cache,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case фиксации бронирования
// Проверка ёмкости и вставка выполняются в одной транзакции под блокировкой ключа слота,
// поэтому на слот никогда не приходится больше capacity бронирований
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CommitBooking: shop=%s, date=%s, slot=%s, order=%s",
		req.Shop, req.Date, req.SlotID, req.OrderID)

	// 1. Валидация входных данных
	slotID, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CommitBooking: validation failed: %v", err)
		uc.metrics.IncBooking(metrics.BookingFailed)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем настройки магазина
	settings, err := uc.settingsRepo.Get(ctx, req.Shop)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Warn("CommitBooking: shop=%s is not configured", req.Shop)
			uc.metrics.IncBooking(metrics.BookingNotOffered)
			return nil, ErrSettingsNotFound
		}
		uc.logger.Error("CommitBooking: failed to get settings for shop=%s: %v", req.Shop, err)
		uc.metrics.IncBooking(metrics.BookingFailed)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	// 4. Проверяем, что слот предлагается на эту дату
	slot, err := uc.engine.CheckOffered(settings, now, req.Date, slotID)
	if err != nil {
		uc.logger.Warn("CommitBooking: slot=%s not offered on %s for shop=%s: %v", slotID, req.Date, req.Shop, err)
		uc.metrics.IncBooking(metrics.BookingNotOffered)
		return nil, fmt.Errorf("%w: %v", ErrSlotNotOffered, err)
	}

	var (
		result    *domain.BookingRecord
		remaining int
	)

	// 5. Атомарно: блокировка ключа, подсчёт, вставка
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		key := domain.SlotKey{Shop: req.Shop, Date: req.Date, SlotID: slotID}

		// 5.1. Блокируем ключ (магазин, дата, слот)
		if err := uc.ledgerRepo.LockSlot(txCtx, key); err != nil {
			uc.logger.Error("CommitBooking: failed to lock slot: %v", err)
			return fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
		}

		// 5.2. Считаем бронирования под блокировкой
		booked, err := uc.ledgerRepo.Count(txCtx, req.Shop, req.Date, slotID)
		if err != nil {
			uc.logger.Error("CommitBooking: failed to count bookings: %v", err)
			return fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
		}

		// При capacity = 2 допустимо booked = 0, 1
		if domain.StateOf(slot.Capacity, booked) == domain.SlotFull {
			uc.logger.Warn("CommitBooking: slot full, %d/%d taken", booked, slot.Capacity)
			return ErrSlotNotAvailable
		}

		// 5.3. Добавляем запись в журнал
		created, err := uc.ledgerRepo.Append(txCtx, &domain.BookingRecord{
			Shop:       req.Shop,
			Date:       req.Date,
			SlotID:     slotID,
			OrderID:    req.OrderID,
			CustomerID: req.CustomerID,
		})
		if err != nil {
			uc.logger.Error("CommitBooking: failed to append booking: %v", err)
			return fmt.Errorf("%w: failed to append booking: %v", ErrInternal, err)
		}

		result = created
		remaining = slot.Capacity - booked - 1
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			uc.metrics.IncBooking(metrics.BookingCapacityExceeded)
			return nil, err
		}
		uc.metrics.IncBooking(metrics.BookingFailed)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.metrics.IncBooking(metrics.BookingCommitted)
	uc.logger.Info("CommitBooking: booking id=%s committed, %d remaining", result.ID, remaining)

	// 6. Побочные эффекты после фиксации; их ошибки не отменяют бронирование
	uc.afterCommit(ctx, result)

	return &Response{
		ID:         result.ID,
		Shop:       result.Shop,
		Date:       result.Date,
		SlotID:     result.SlotID.String(),
		OrderID:    result.OrderID,
		CustomerID: result.CustomerID,
		Remaining:  remaining,
		CreatedAt:  result.CreatedAt,
	}, nil
}

func (uc *UseCase) afterCommit(ctx context.Context, record *domain.BookingRecord) {
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, record.Shop); err != nil {
			uc.logger.Warn("CommitBooking: failed to invalidate cache for shop=%s: %v", record.Shop, err)
		}
	}

	if uc.publisher != nil {
		if err := uc.publisher.BookingCommitted(ctx, record); err != nil {
			uc.logger.Warn("CommitBooking: failed to publish event for booking id=%s: %v", record.ID, err)
		}
	}
}
