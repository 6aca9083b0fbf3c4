package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	settingsRepo "github.com/m04kA/SMC-DeliveryScheduler/internal/infra/storage/settings"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/settings/models"
)

// Service сервис для работы с настройками доставки
type Service struct {
	settingsRepo SettingsRepository
	validator    *Validator
	cache        CacheInvalidator
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
// cache может быть nil
func NewService(
	settingsRepo SettingsRepository,
	validator *Validator,
	cache CacheInvalidator,
	logger Logger,
) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		validator:    validator,
		cache:        cache,
		logger:       logger,
	}
}

// Get получает настройки магазина
func (s *Service) Get(ctx context.Context, shop string) (*models.SettingsResponse, error) {
	s.logger.Info("Get: fetching settings for shop=%s", shop)

	settings, err := s.settingsRepo.Get(ctx, shop)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Info("Get: shop=%s has no settings", shop)
			return nil, ErrSettingsNotFound
		}
		s.logger.Error("Get: repository error for shop=%s: %v", shop, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSettings(settings), nil
}

// Save сохраняет настройки магазина с семантикой полной замены
// Некорректные слоты отклоняются здесь и никогда не доходят до движка доступности
func (s *Service) Save(ctx context.Context, req *models.SaveSettingsRequest) (*models.SettingsResponse, error) {
	req.Shop = strings.TrimSpace(req.Shop)
	s.logger.Info("Save: saving settings for shop=%s, %d slots, %d blackout dates",
		req.Shop, len(req.TimeSlots), len(req.BlackoutDates))

	// 1. Валидируем и нормализуем
	settings, err := s.validator.Validate(req)
	if err != nil {
		s.logger.Warn("Save: validation failed for shop=%s: %v", req.Shop, err)
		return nil, err
	}

	// 2. Сохраняем
	saved, err := s.settingsRepo.Save(ctx, settings)
	if err != nil {
		s.logger.Error("Save: repository error for shop=%s: %v", req.Shop, err)
		return nil, fmt.Errorf("%w: Save - repository error: %v", ErrInternal, err)
	}

	// 3. Сбрасываем кеш доступности
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, req.Shop); err != nil {
			s.logger.Warn("Save: failed to invalidate cache for shop=%s: %v", req.Shop, err)
		}
	}

	s.logger.Info("Save: successfully saved settings for shop=%s", req.Shop)
	return models.FromDomainSettings(saved), nil
}
