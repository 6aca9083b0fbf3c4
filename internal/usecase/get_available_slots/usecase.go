package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	settingsRepo "github.com/m04kA/SMC-DeliveryScheduler/internal/infra/storage/settings"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/availability"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/metrics"
)

// UseCase use case для получения доступных слотов доставки
type UseCase struct {
	settingsRepo SettingsRepository
	ledgerRepo   LedgerRepository
	engine       Engine
	cache        AvailabilityCache
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// cache может быть nil: тогда каждый запрос вычисляется заново
func NewUseCase(
	settingsRepo SettingsRepository,
	ledgerRepo LedgerRepository,
	engine Engine,
	cache AvailabilityCache,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		settingsRepo: settingsRepo,
		ledgerRepo:   ledgerRepo,
		engine:       engine,
		cache:        cache,
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

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	shop := strings.TrimSpace(req.Shop)
	if shop == "" {
		return nil, fmt.Errorf("%w: shop is required", ErrInvalidInput)
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Пробуем кеш; версия читается до похода в хранилище
	view, version, cacheable, hit := uc.fromCache(ctx, shop, now)
	if hit {
		return &Response{Shop: shop, Configured: true, Available: view}, nil
	}

	// 4. Получаем настройки магазина; их отсутствие не ошибка
	settings, err := uc.settingsRepo.Get(ctx, shop)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Info("GetAvailableSlots: shop=%s is not configured", shop)
			return &Response{Shop: shop, Configured: false, Available: domain.AvailabilityView{}}, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get settings for shop=%s: %v", shop, err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrStorageUnavailable, err)
	}

	// 5. Загружаем счётчики бронирований на весь горизонт одним запросом
	horizon := uc.engine.Horizon(settings, now)
	counts, err := uc.ledgerRepo.CountRange(ctx, shop, horizon[0], horizon[len(horizon)-1])
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to count bookings for shop=%s: %v", shop, err)
		return nil, fmt.Errorf("%w: failed to count bookings: %v", ErrStorageUnavailable, err)
	}

	// 6. Вычисляем доступность
	view, err = uc.engine.Compute(ctx, settings, now, availability.Counts(counts))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute availability for shop=%s: %v", shop, err)
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	// 7. Сохраняем в кеш под версией из шага 3
	if cacheable {
		uc.toCache(ctx, shop, version, now, view)
	}

	uc.logger.Info("GetAvailableSlots: shop=%s, %d days available", shop, len(view))

	return &Response{Shop: shop, Configured: true, Available: view}, nil
}

// fromCache ошибки кеша не прерывают запрос: доступность пересчитывается из хранилища
// cacheable == false, если версия неизвестна и вычисленное представление сохранять нельзя
func (uc *UseCase) fromCache(ctx context.Context, shop string, now time.Time) (view domain.AvailabilityView, version int64, cacheable, hit bool) {
	if uc.cache == nil {
		return nil, 0, false, false
	}

	view, version, ok, err := uc.cache.Get(ctx, shop, now)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: cache read failed for shop=%s: %v", shop, err)
		uc.metrics.IncAvailabilityCache(metrics.CacheError)
		return nil, 0, false, false
	}
	if !ok {
		uc.metrics.IncAvailabilityCache(metrics.CacheMiss)
		return nil, version, true, false
	}

	uc.metrics.IncAvailabilityCache(metrics.CacheHit)
	return view, version, true, true
}

func (uc *UseCase) toCache(ctx context.Context, shop string, version int64, now time.Time, view domain.AvailabilityView) {
	if err := uc.cache.Set(ctx, shop, version, now, view); err != nil {
		uc.logger.Warn("GetAvailableSlots: cache write failed for shop=%s: %v", shop, err)
		uc.metrics.IncAvailabilityCache(metrics.CacheError)
	}
}
