package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/psqlbuilder"
)

const table = "delivery_bookings"

// Repository журнал бронирований слотов доставки
// Записи только добавляются; удаление происходит только при отмене заказа
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр журнала бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockSlot берёт транзакционную advisory-блокировку на ключ (магазин, дата, слот)
// Блокировка держится до конца транзакции, поэтому пара Count + Append под ней атомарна
// Вызывается только внутри транзакции
func (r *Repository) LockSlot(ctx context.Context, key domain.SlotKey) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNotInTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(hashtext(?))", lockKey(key))).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: LockSlot - build lock query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LockSlot - execute lock: %v", ErrExecQuery, err)
	}

	return nil
}

func lockKey(key domain.SlotKey) string {
	return key.Shop + "|" + key.Date + "|" + key.SlotID.String()
}

// Count возвращает количество бронирований по ключу (магазин, дата, слот)
func (r *Repository) Count(ctx context.Context, shop, date string, slotID domain.SlotID) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := countQuery(shop, date, slotID).ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Count - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: Count - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CountRange возвращает количество бронирований магазина по всем слотам в диапазоне дат [from, to]
func (r *Repository) CountRange(ctx context.Context, shop, from, to string) (map[domain.SlotKey]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := countRangeQuery(shop, from, to).ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountRange - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[domain.SlotKey]int)
	for rows.Next() {
		var (
			date   time.Time
			slotID string
			count  int
		)
		if err := rows.Scan(&date, &slotID, &count); err != nil {
			return nil, fmt.Errorf("%w: CountRange - scan row: %v", ErrScanRow, err)
		}
		key := domain.SlotKey{Shop: shop, Date: date.Format(domain.DateFormat), SlotID: domain.SlotID(slotID)}
		counts[key] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountRange - rows iteration: %v", ErrScanRow, err)
	}

	return counts, nil
}

// Append добавляет запись в журнал; никогда не перезаписывает существующие
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Append(ctx context.Context, record *domain.BookingRecord) (*domain.BookingRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	query, args, err := appendQuery(record).ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&record.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}

	return record, nil
}

func countQuery(shop, date string, slotID domain.SlotID) squirrel.SelectBuilder {
	return psqlbuilder.Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{
			"shop":         shop,
			"booking_date": date,
			"slot_id":      slotID.String(),
		})
}

// countRangeQuery обе границы диапазона включительно
func countRangeQuery(shop, from, to string) squirrel.SelectBuilder {
	return psqlbuilder.Select("booking_date", "slot_id", "COUNT(*)").
		From(table).
		Where(squirrel.Eq{"shop": shop}).
		Where(squirrel.GtOrEq{"booking_date": from}).
		Where(squirrel.LtOrEq{"booking_date": to}).
		GroupBy("booking_date", "slot_id")
}

func appendQuery(record *domain.BookingRecord) squirrel.InsertBuilder {
	return psqlbuilder.Insert(table).
		Columns(
			"id",
			"shop",
			"booking_date",
			"slot_id",
			"order_id",
			"customer_id",
		).
		Values(
			record.ID,
			record.Shop,
			record.Date,
			record.SlotID.String(),
			record.OrderID,
			record.CustomerID,
		).
		Suffix("RETURNING created_at")
}

// List получает записи журнала магазина, отсортированные по дате и слоту
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"shop",
		"booking_date",
		"slot_id",
		"order_id",
		"customer_id",
		"created_at",
	).
		From(table).
		Where(squirrel.Eq{"shop": filter.Shop}).
		OrderBy("booking_date ASC", "slot_id ASC", "created_at ASC")

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_date": *filter.Date})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]*domain.BookingRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrScanRow, err)
	}

	return records, nil
}

// DeleteByOrder удаляет записи заказа (отмена) и возвращает удалённые записи
func (r *Repository) DeleteByOrder(ctx context.Context, shop, orderID string) ([]*domain.BookingRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"shop": shop, "order_id": orderID}).
		Suffix("RETURNING id, shop, booking_date, slot_id, order_id, customer_id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: DeleteByOrder - build delete query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: DeleteByOrder - execute delete: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]*domain.BookingRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: DeleteByOrder - rows iteration: %v", ErrScanRow, err)
	}

	if len(records) == 0 {
		return nil, ErrBookingNotFound
	}

	return records, nil
}

// RekeySlot переносит бронирования магазина со старого идентификатора слота на новый
func (r *Repository) RekeySlot(ctx context.Context, shop, fromSlotID string, toSlotID domain.SlotID) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("slot_id", toSlotID.String()).
		Where(squirrel.Eq{"shop": shop, "slot_id": fromSlotID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: RekeySlot - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: RekeySlot - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: RekeySlot - rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

func scanRecord(rows *sql.Rows) (*domain.BookingRecord, error) {
	var (
		record domain.BookingRecord
		date   time.Time
		slotID string
	)

	err := rows.Scan(
		&record.ID,
		&record.Shop,
		&date,
		&slotID,
		&record.OrderID,
		&record.CustomerID,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: scan booking record: %v", ErrScanRow, err)
	}

	record.Date = date.Format(domain.DateFormat)
	record.SlotID = domain.SlotID(slotID)

	return &record, nil
}
