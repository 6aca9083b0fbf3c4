package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	ledgerRepo "github.com/m04kA/SMC-DeliveryScheduler/internal/infra/storage/ledger"
)

type bookingDocument struct {
	ID         string    `bson:"_id"`
	Shop       string    `bson:"shop"`
	Date       string    `bson:"date"`
	SlotID     string    `bson:"slotId"`
	OrderID    string    `bson:"orderId"`
	CustomerID string    `bson:"customerId"`
	CreatedAt  time.Time `bson:"createdAt"`
}

func (d *bookingDocument) toDomain() *domain.BookingRecord {
	return &domain.BookingRecord{
		ID:         d.ID,
		Shop:       d.Shop,
		Date:       d.Date,
		SlotID:     domain.SlotID(d.SlotID),
		OrderID:    d.OrderID,
		CustomerID: d.CustomerID,
		CreatedAt:  d.CreatedAt,
	}
}

// LedgerRepository журнал бронирований в MongoDB
type LedgerRepository struct {
	coll   *mongo.Collection
	guards *mongo.Collection
}

// LockSlot обновляет guard-документ ключа (магазин, дата, слот) внутри транзакции
// Две транзакции, тронувшие один guard, конфликтуют по записи, и одна из них перезапускается
func (r *LedgerRepository) LockSlot(ctx context.Context, key domain.SlotKey) error {
	if mongo.SessionFromContext(ctx) == nil {
		return ledgerRepo.ErrNotInTransaction
	}

	_, err := r.guards.UpdateOne(ctx,
		bson.M{"_id": key.Shop + "|" + key.Date + "|" + key.SlotID.String()},
		bson.M{"$inc": bson.M{"version": 1}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%w: LockSlot - update guard: %v", ledgerRepo.ErrExecQuery, err)
	}
	return nil
}

// Count возвращает количество бронирований по ключу (магазин, дата, слот)
func (r *LedgerRepository) Count(ctx context.Context, shop, date string, slotID domain.SlotID) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"shop":   shop,
		"date":   date,
		"slotId": slotID.String(),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: Count - count documents: %v", ledgerRepo.ErrExecQuery, err)
	}
	return int(n), nil
}

// CountRange возвращает количество бронирований магазина по всем слотам в диапазоне дат [from, to]
func (r *LedgerRepository) CountRange(ctx context.Context, shop, from, to string) (map[domain.SlotKey]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"shop": shop,
			"date": bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"date": "$date", "slotId": "$slotId"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: CountRange - aggregate: %v", ledgerRepo.ErrExecQuery, err)
	}
	defer cursor.Close(ctx)

	counts := make(map[domain.SlotKey]int)
	for cursor.Next(ctx) {
		var row struct {
			ID struct {
				Date   string `bson:"date"`
				SlotID string `bson:"slotId"`
			} `bson:"_id"`
			Count int `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("%w: CountRange - decode: %v", ledgerRepo.ErrScanRow, err)
		}
		counts[domain.SlotKey{Shop: shop, Date: row.ID.Date, SlotID: domain.SlotID(row.ID.SlotID)}] = row.Count
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountRange - cursor: %v", ledgerRepo.ErrScanRow, err)
	}

	return counts, nil
}

// Append добавляет запись в журнал
func (r *LedgerRepository) Append(ctx context.Context, record *domain.BookingRecord) (*domain.BookingRecord, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.CreatedAt = time.Now().UTC()

	doc := bookingDocument{
		ID:         record.ID,
		Shop:       record.Shop,
		Date:       record.Date,
		SlotID:     record.SlotID.String(),
		OrderID:    record.OrderID,
		CustomerID: record.CustomerID,
		CreatedAt:  record.CreatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: Append - insert: %v", ledgerRepo.ErrExecQuery, err)
	}

	return record, nil
}

// List получает записи журнала магазина, отсортированные по дате и слоту
func (r *LedgerRepository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingRecord, error) {
	query := bson.M{"shop": filter.Shop}
	if filter.Date != nil {
		query["date"] = *filter.Date
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "slotId", Value: 1},
		{Key: "createdAt", Value: 1},
	})

	return r.find(ctx, query, opts)
}

// DeleteByOrder удаляет записи заказа (отмена) и возвращает удалённые записи
func (r *LedgerRepository) DeleteByOrder(ctx context.Context, shop, orderID string) ([]*domain.BookingRecord, error) {
	query := bson.M{"shop": shop, "orderId": orderID}

	records, err := r.find(ctx, query, options.Find())
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ledgerRepo.ErrBookingNotFound
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}

	if _, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return nil, fmt.Errorf("%w: DeleteByOrder - delete: %v", ledgerRepo.ErrExecQuery, err)
	}

	return records, nil
}

// RekeySlot переносит бронирования магазина со старого идентификатора слота на новый
func (r *LedgerRepository) RekeySlot(ctx context.Context, shop, fromSlotID string, toSlotID domain.SlotID) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"shop": shop, "slotId": fromSlotID},
		bson.M{"$set": bson.M{"slotId": toSlotID.String()}},
	)
	if err != nil {
		return 0, fmt.Errorf("%w: RekeySlot - update: %v", ledgerRepo.ErrExecQuery, err)
	}
	return res.ModifiedCount, nil
}

func (r *LedgerRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*domain.BookingRecord, error) {
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find bookings: %v", ledgerRepo.ErrExecQuery, err)
	}
	defer cursor.Close(ctx)

	records := make([]*domain.BookingRecord, 0)
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode booking: %v", ledgerRepo.ErrScanRow, err)
		}
		records = append(records, doc.toDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: bookings cursor: %v", ledgerRepo.ErrScanRow, err)
	}

	return records, nil
}
