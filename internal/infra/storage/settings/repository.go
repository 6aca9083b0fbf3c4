package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/psqlbuilder"
)

const table = "delivery_settings"

// Repository репозиторий настроек доставки (одна запись на магазин)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает настройки магазина
func (r *Repository) Get(ctx context.Context, shop string) (*domain.DeliverySettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"shop",
		"blackout_dates",
		"time_slots",
		"cutoff_same_day",
		"cutoff_next_day",
		"timezone",
		"created_at",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"shop": shop}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var (
		s             domain.DeliverySettings
		blackoutDates pq.StringArray
		rawSlots      []byte
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.Shop,
		&blackoutDates,
		&rawSlots,
		&s.CutoffSameDay,
		&s.CutoffNextDay,
		&s.Timezone,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %v", ErrScanRow, err)
	}

	var stored []domain.StoredSlot
	if err := json.Unmarshal(rawSlots, &stored); err != nil {
		return nil, fmt.Errorf("%w: Get - decode time_slots: %v", ErrEncodeSlots, err)
	}

	s.TimeSlots, err = FromStoredSlots(stored)
	if err != nil {
		return nil, err
	}
	s.BlackoutDates = []string(blackoutDates)

	return &s, nil
}

// Save сохраняет настройки магазина с семантикой полной замены
func (r *Repository) Save(ctx context.Context, s *domain.DeliverySettings) (*domain.DeliverySettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rawSlots, err := json.Marshal(ToStoredSlots(s.TimeSlots))
	if err != nil {
		return nil, fmt.Errorf("%w: Save - encode time_slots: %v", ErrEncodeSlots, err)
	}

	blackoutDates := s.BlackoutDates
	if blackoutDates == nil {
		blackoutDates = []string{}
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"shop",
			"blackout_dates",
			"time_slots",
			"cutoff_same_day",
			"cutoff_next_day",
			"timezone",
		).
		Values(
			s.Shop,
			pq.StringArray(blackoutDates),
			rawSlots,
			s.CutoffSameDay,
			s.CutoffNextDay,
			s.Timezone,
		).
		Suffix(`ON CONFLICT (shop) DO UPDATE SET
			blackout_dates = EXCLUDED.blackout_dates,
			time_slots = EXCLUDED.time_slots,
			cutoff_same_day = EXCLUDED.cutoff_same_day,
			cutoff_next_day = EXCLUDED.cutoff_next_day,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
			RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Save - execute upsert: %v", ErrExecQuery, err)
	}

	return s, nil
}

// ListStoredSlots возвращает слоты всех магазинов в формате хранения
func (r *Repository) ListStoredSlots(ctx context.Context) ([]domain.ShopStoredSlots, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("shop", "time_slots").
		From(table).
		OrderBy("shop").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListStoredSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStoredSlots - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.ShopStoredSlots, 0)
	for rows.Next() {
		var (
			item     domain.ShopStoredSlots
			rawSlots []byte
		)
		if err := rows.Scan(&item.Shop, &rawSlots); err != nil {
			return nil, fmt.Errorf("%w: ListStoredSlots - scan row: %v", ErrScanRow, err)
		}
		if err := json.Unmarshal(rawSlots, &item.Slots); err != nil {
			return nil, fmt.Errorf("%w: ListStoredSlots - decode time_slots for shop=%s: %v", ErrEncodeSlots, item.Shop, err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStoredSlots - rows iteration: %v", ErrScanRow, err)
	}

	return result, nil
}

// ReplaceTimeSlots перезаписывает только слоты магазина
func (r *Repository) ReplaceTimeSlots(ctx context.Context, shop string, slots []domain.TimeSlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rawSlots, err := json.Marshal(ToStoredSlots(slots))
	if err != nil {
		return fmt.Errorf("%w: ReplaceTimeSlots - encode time_slots: %v", ErrEncodeSlots, err)
	}

	query, args, err := psqlbuilder.Update(table).
		Set("time_slots", rawSlots).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"shop": shop}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReplaceTimeSlots - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ReplaceTimeSlots - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ReplaceTimeSlots - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrSettingsNotFound
	}

	return nil
}
