package migrate_legacy_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/types"
)

// UseCase переводит слоты старого формата {time, capacity} в {startTime, endTime, capacity}
// и переносит бронирования на новые идентификаторы слотов
type UseCase struct {
	settingsRepo SettingsRepository
	ledgerRepo   LedgerRepository
	txManager    TransactionManager
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	settingsRepo SettingsRepository,
	ledgerRepo LedgerRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		settingsRepo: settingsRepo,
		ledgerRepo:   ledgerRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// rekey старый идентификатор брони -> новый идентификатор слота
type rekey struct {
	from string
	to   domain.SlotID
}

// Execute выполняет миграцию; повторный запуск ничего не меняет
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	minutes := req.SlotMinutes
	if minutes <= 0 {
		minutes = domain.DefaultLegacySlotMinutes
	}

	// 1. Читаем сырые слоты всех магазинов
	rows, err := uc.settingsRepo.ListStoredSlots(ctx)
	if err != nil {
		uc.logger.Error("MigrateLegacySlots: failed to list settings: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	resp := &Response{ShopsScanned: len(rows)}

	for _, row := range rows {
		// 2. Конвертируем слоты магазина
		slots, rekeys, err := convert(row.Slots, minutes)
		if err != nil {
			uc.logger.Error("MigrateLegacySlots: shop=%s: %v", row.Shop, err)
			resp.FailedShops = append(resp.FailedShops, row.Shop)
			continue
		}
		if len(rekeys) == 0 {
			continue
		}

		if req.DryRun {
			uc.logger.Info("MigrateLegacySlots: shop=%s would convert %d slots (dry run)", row.Shop, len(rekeys))
			resp.ShopsMigrated++
			resp.SlotsConverted += countConverted(row.Slots)
			continue
		}

		// 3. Пишем новые слоты и переносим бронирования одной транзакцией
		var rekeyed int64
		err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
			if err := uc.settingsRepo.ReplaceTimeSlots(txCtx, row.Shop, slots); err != nil {
				return fmt.Errorf("replace time slots: %w", err)
			}
			for _, rk := range rekeys {
				n, err := uc.ledgerRepo.RekeySlot(txCtx, row.Shop, rk.from, rk.to)
				if err != nil {
					return fmt.Errorf("rekey %s -> %s: %w", rk.from, rk.to, err)
				}
				rekeyed += n
			}
			return nil
		})
		if err != nil {
			uc.logger.Error("MigrateLegacySlots: shop=%s: %v", row.Shop, err)
			resp.FailedShops = append(resp.FailedShops, row.Shop)
			continue
		}

		converted := countConverted(row.Slots)
		uc.logger.Info("MigrateLegacySlots: shop=%s migrated, %d slots converted, %d bookings re-keyed",
			row.Shop, converted, rekeyed)
		resp.ShopsMigrated++
		resp.SlotsConverted += converted
		resp.BookingsRekeyed += rekeyed
	}

	if len(resp.FailedShops) > 0 {
		return resp, fmt.Errorf("%w: %v", ErrShopFailed, resp.FailedShops)
	}
	return resp, nil
}

// convert возвращает канонические слоты и список переносов бронирований
// Пустой список переносов означает, что в строке нет слотов старого формата
func convert(stored []domain.StoredSlot, minutes int) ([]domain.TimeSlot, []rekey, error) {
	var (
		slots  = make([]domain.TimeSlot, 0, len(stored))
		rekeys []rekey
		seen   = make(map[domain.SlotID]struct{}, len(stored))
	)

	for _, s := range stored {
		var slot domain.TimeSlot

		if legacy, ok := s.Legacy(); ok {
			converted, err := domain.ConvertLegacySlot(legacy, minutes)
			if err != nil {
				return nil, nil, err
			}
			slot = converted

			// Брони старого формата хранят время как есть и в нормализованном виде
			rekeys = append(rekeys, rekey{from: legacy.Time, to: slot.ID()})
			if normalized := slot.StartTime.String(); normalized != legacy.Time {
				rekeys = append(rekeys, rekey{from: normalized, to: slot.ID()})
			}
		} else {
			start, err := types.NewTimeStringFromString(s.StartTime)
			if err != nil {
				return nil, nil, fmt.Errorf("slot startTime %q: %w", s.StartTime, err)
			}
			end, err := types.NewTimeStringFromString(s.EndTime)
			if err != nil {
				return nil, nil, fmt.Errorf("slot endTime %q: %w", s.EndTime, err)
			}
			slot = domain.TimeSlot{StartTime: start, EndTime: end, Capacity: s.Capacity}
		}

		if slot.Capacity < domain.MinSlotCapacity || slot.Capacity > domain.MaxSlotCapacity {
			return nil, nil, fmt.Errorf("slot %s capacity %d is out of range %d..%d",
				slot.ID(), slot.Capacity, domain.MinSlotCapacity, domain.MaxSlotCapacity)
		}
		if _, dup := seen[slot.ID()]; dup {
			return nil, nil, fmt.Errorf("duplicate slot %s after conversion", slot.ID())
		}
		seen[slot.ID()] = struct{}{}
		slots = append(slots, slot)
	}

	settings := domain.DeliverySettings{TimeSlots: slots}
	settings.Normalize()
	return settings.TimeSlots, rekeys, nil
}

func countConverted(stored []domain.StoredSlot) int {
	n := 0
	for _, s := range stored {
		if _, ok := s.Legacy(); ok {
			n++
		}
	}
	return n
}
