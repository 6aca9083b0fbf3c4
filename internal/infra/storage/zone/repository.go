package zone

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/psqlbuilder"
)

const table = "delivery_zones"

var columns = []string{
	"id",
	"shop",
	"name",
	"street",
	"city",
	"province",
	"country",
	"zip",
	"shipping_rate",
	"created_at",
	"updated_at",
}

// Repository репозиторий зон доставки
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория зон доставки
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByShop получает зоны магазина, отсортированные по названию
func (r *Repository) ListByShop(ctx context.Context, shop string) ([]*domain.DeliveryZone, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"shop": shop}).
		OrderBy("name ASC", "created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByShop - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByShop - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	zones := make([]*domain.DeliveryZone, 0)
	for rows.Next() {
		var z domain.DeliveryZone
		if err := rows.Scan(zoneFields(&z)...); err != nil {
			return nil, fmt.Errorf("%w: ListByShop - scan zone: %v", ErrScanRow, err)
		}
		zones = append(zones, &z)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByShop - rows iteration: %v", ErrScanRow, err)
	}

	return zones, nil
}

// GetByID получает зону магазина по ID
func (r *Repository) GetByID(ctx context.Context, shop, id string) (*domain.DeliveryZone, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"shop": shop, "id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var z domain.DeliveryZone
	err = executor.QueryRowContext(ctx, query, args...).Scan(zoneFields(&z)...)
	if err == sql.ErrNoRows {
		return nil, ErrZoneNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan zone: %v", ErrScanRow, err)
	}

	return &z, nil
}

// Create создает новую зону доставки
func (r *Repository) Create(ctx context.Context, z *domain.DeliveryZone) (*domain.DeliveryZone, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if z.ID == "" {
		z.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "shop", "name", "street", "city", "province", "country", "zip", "shipping_rate").
		Values(
			z.ID,
			z.Shop,
			z.Name,
			z.Address.Street,
			z.Address.City,
			z.Address.Province,
			z.Address.Country,
			z.Address.Zip,
			z.ShippingRate,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&z.CreatedAt, &z.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return z, nil
}

// Update обновляет зону доставки магазина
func (r *Repository) Update(ctx context.Context, z *domain.DeliveryZone) (*domain.DeliveryZone, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("name", z.Name).
		Set("street", z.Address.Street).
		Set("city", z.Address.City).
		Set("province", z.Address.Province).
		Set("country", z.Address.Country).
		Set("zip", z.Address.Zip).
		Set("shipping_rate", z.ShippingRate).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"shop": z.Shop, "id": z.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&z.CreatedAt, &z.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrZoneNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return z, nil
}

// Delete удаляет зону доставки магазина
func (r *Repository) Delete(ctx context.Context, shop, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"shop": shop, "id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrZoneNotFound
	}

	return nil
}

func zoneFields(z *domain.DeliveryZone) []interface{} {
	return []interface{}{
		&z.ID,
		&z.Shop,
		&z.Name,
		&z.Address.Street,
		&z.Address.City,
		&z.Address.Province,
		&z.Address.Country,
		&z.Address.Zip,
		&z.ShippingRate,
		&z.CreatedAt,
		&z.UpdatedAt,
	}
}
