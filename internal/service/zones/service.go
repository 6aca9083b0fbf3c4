package zones

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	zoneRepo "github.com/m04kA/SMC-DeliveryScheduler/internal/infra/storage/zone"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/zones/models"
)

// Service сервис для работы с зонами доставки
type Service struct {
	zoneRepo ZoneRepository
	validate *validator.Validate
	logger   Logger
}

// NewService создает новый экземпляр сервиса зон
func NewService(zoneRepo ZoneRepository, logger Logger) *Service {
	return &Service{
		zoneRepo: zoneRepo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// List возвращает зоны доставки магазина
func (s *Service) List(ctx context.Context, shop string) (*models.ZoneListResponse, error) {
	if strings.TrimSpace(shop) == "" {
		return nil, fmt.Errorf("%w: shop is required", ErrInvalidInput)
	}

	zones, err := s.zoneRepo.ListByShop(ctx, shop)
	if err != nil {
		s.logger.Error("List: repository error for shop=%s: %v", shop, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	result := make([]models.ZoneResponse, 0, len(zones))
	for _, z := range zones {
		result = append(result, models.FromDomainZone(z))
	}
	return &models.ZoneListResponse{Zones: result}, nil
}

// Save создает зону, если id не задан, иначе обновляет существующую
func (s *Service) Save(ctx context.Context, req *models.SaveZoneRequest) (*models.ZoneResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fe := validationErrors[0]
			s.logger.Warn("Save: validation failed for shop=%s: %s %s", req.Shop, fe.Field(), fe.Tag())
			return nil, fmt.Errorf("%w: field %s failed on %s", ErrInvalidInput, fe.Field(), fe.Tag())
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	zone := req.ToDomain()

	if zone.ID == "" {
		created, err := s.zoneRepo.Create(ctx, zone)
		if err != nil {
			s.logger.Error("Save: failed to create zone for shop=%s: %v", req.Shop, err)
			return nil, fmt.Errorf("%w: Save - create: %v", ErrInternal, err)
		}
		s.logger.Info("Save: created zone id=%s for shop=%s", created.ID, req.Shop)
		resp := models.FromDomainZone(created)
		return &resp, nil
	}

	updated, err := s.zoneRepo.Update(ctx, zone)
	if err != nil {
		if errors.Is(err, zoneRepo.ErrZoneNotFound) {
			s.logger.Warn("Save: zone id=%s not found for shop=%s", zone.ID, req.Shop)
			return nil, ErrZoneNotFound
		}
		s.logger.Error("Save: failed to update zone id=%s: %v", zone.ID, err)
		return nil, fmt.Errorf("%w: Save - update: %v", ErrInternal, err)
	}

	s.logger.Info("Save: updated zone id=%s for shop=%s", updated.ID, req.Shop)
	resp := models.FromDomainZone(updated)
	return &resp, nil
}

// Delete удаляет зону магазина
func (s *Service) Delete(ctx context.Context, shop, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}

	if err := s.zoneRepo.Delete(ctx, shop, id); err != nil {
		if errors.Is(err, zoneRepo.ErrZoneNotFound) {
			return ErrZoneNotFound
		}
		s.logger.Error("Delete: failed to delete zone id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: deleted zone id=%s for shop=%s", id, shop)
	return nil
}
