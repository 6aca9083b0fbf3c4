package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	zoneRepo "github.com/m04kA/SMC-DeliveryScheduler/internal/infra/storage/zone"
)

type zoneAddressDocument struct {
	Street   string `bson:"street"`
	City     string `bson:"city"`
	Province string `bson:"province"`
	Country  string `bson:"country"`
	Zip      string `bson:"zip"`
}

type zoneDocument struct {
	ID           string              `bson:"_id"`
	Shop         string              `bson:"shop"`
	Name         string              `bson:"name"`
	Address      zoneAddressDocument `bson:"address"`
	ShippingRate float64             `bson:"shippingRate"`
	CreatedAt    time.Time           `bson:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt"`
}

func (d *zoneDocument) toDomain() *domain.DeliveryZone {
	return &domain.DeliveryZone{
		ID:   d.ID,
		Shop: d.Shop,
		Name: d.Name,
		Address: domain.ZoneAddress{
			Street:   d.Address.Street,
			City:     d.Address.City,
			Province: d.Address.Province,
			Country:  d.Address.Country,
			Zip:      d.Address.Zip,
		},
		ShippingRate: d.ShippingRate,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func zoneAddressFromDomain(a domain.ZoneAddress) zoneAddressDocument {
	return zoneAddressDocument{
		Street:   a.Street,
		City:     a.City,
		Province: a.Province,
		Country:  a.Country,
		Zip:      a.Zip,
	}
}

// ZoneRepository зоны доставки в MongoDB
type ZoneRepository struct {
	coll *mongo.Collection
}

// ListByShop получает зоны магазина, отсортированные по названию
func (r *ZoneRepository) ListByShop(ctx context.Context, shop string) ([]*domain.DeliveryZone, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "createdAt", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{"shop": shop}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByShop - find: %v", zoneRepo.ErrExecQuery, err)
	}
	defer cursor.Close(ctx)

	zones := make([]*domain.DeliveryZone, 0)
	for cursor.Next(ctx) {
		var doc zoneDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: ListByShop - decode: %v", zoneRepo.ErrScanRow, err)
		}
		zones = append(zones, doc.toDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByShop - cursor: %v", zoneRepo.ErrScanRow, err)
	}

	return zones, nil
}

// GetByID получает зону магазина по ID
func (r *ZoneRepository) GetByID(ctx context.Context, shop, id string) (*domain.DeliveryZone, error) {
	var doc zoneDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "shop": shop}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, zoneRepo.ErrZoneNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - find: %v", zoneRepo.ErrExecQuery, err)
	}
	return doc.toDomain(), nil
}

// Create создает новую зону доставки
func (r *ZoneRepository) Create(ctx context.Context, z *domain.DeliveryZone) (*domain.DeliveryZone, error) {
	if z.ID == "" {
		z.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	z.CreatedAt = now
	z.UpdatedAt = now

	doc := zoneDocument{
		ID:           z.ID,
		Shop:         z.Shop,
		Name:         z.Name,
		Address:      zoneAddressFromDomain(z.Address),
		ShippingRate: z.ShippingRate,
		CreatedAt:    z.CreatedAt,
		UpdatedAt:    z.UpdatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: Create - insert: %v", zoneRepo.ErrExecQuery, err)
	}
	return z, nil
}

// Update обновляет зону доставки магазина
func (r *ZoneRepository) Update(ctx context.Context, z *domain.DeliveryZone) (*domain.DeliveryZone, error) {
	update := bson.M{"$set": bson.M{
		"name":         z.Name,
		"address":      zoneAddressFromDomain(z.Address),
		"shippingRate": z.ShippingRate,
		"updatedAt":    time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc zoneDocument
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": z.ID, "shop": z.Shop}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, zoneRepo.ErrZoneNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - update: %v", zoneRepo.ErrExecQuery, err)
	}
	return doc.toDomain(), nil
}

// Delete удаляет зону доставки магазина
func (r *ZoneRepository) Delete(ctx context.Context, shop, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "shop": shop})
	if err != nil {
		return fmt.Errorf("%w: Delete - delete: %v", zoneRepo.ErrExecQuery, err)
	}
	if res.DeletedCount == 0 {
		return zoneRepo.ErrZoneNotFound
	}
	return nil
}
