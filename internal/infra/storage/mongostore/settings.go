package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	settingsRepo "github.com/m04kA/SMC-DeliveryScheduler/internal/infra/storage/settings"
)

type settingsDocument struct {
	Shop          string              `bson:"_id"`
	BlackoutDates []string            `bson:"blackoutDates"`
	TimeSlots     []domain.StoredSlot `bson:"timeSlots"`
	CutoffSameDay string              `bson:"cutoffSameDay,omitempty"`
	CutoffNextDay string              `bson:"cutoffNextDay,omitempty"`
	Timezone      string              `bson:"timezone,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt"`
}

// SettingsRepository настройки доставки в MongoDB (документ на магазин, _id = shop)
type SettingsRepository struct {
	coll *mongo.Collection
}

// Get получает настройки магазина
func (r *SettingsRepository) Get(ctx context.Context, shop string) (*domain.DeliverySettings, error) {
	var doc settingsDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": shop}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - find settings: %v", settingsRepo.ErrExecQuery, err)
	}

	slots, err := settingsRepo.FromStoredSlots(doc.TimeSlots)
	if err != nil {
		return nil, err
	}

	s := &domain.DeliverySettings{
		Shop:          doc.Shop,
		BlackoutDates: doc.BlackoutDates,
		TimeSlots:     slots,
		Timezone:      doc.Timezone,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
	if err := s.CutoffSameDay.Scan(doc.CutoffSameDay); err != nil {
		return nil, fmt.Errorf("%w: Get - cutoffSameDay: %v", settingsRepo.ErrScanRow, err)
	}
	if err := s.CutoffNextDay.Scan(doc.CutoffNextDay); err != nil {
		return nil, fmt.Errorf("%w: Get - cutoffNextDay: %v", settingsRepo.ErrScanRow, err)
	}
	if s.BlackoutDates == nil {
		s.BlackoutDates = []string{}
	}

	return s, nil
}

// Save сохраняет настройки магазина с семантикой полной замены
func (r *SettingsRepository) Save(ctx context.Context, s *domain.DeliverySettings) (*domain.DeliverySettings, error) {
	now := time.Now().UTC()

	blackoutDates := s.BlackoutDates
	if blackoutDates == nil {
		blackoutDates = []string{}
	}

	update := bson.M{
		"$set": bson.M{
			"blackoutDates": blackoutDates,
			"timeSlots":     settingsRepo.ToStoredSlots(s.TimeSlots),
			"cutoffSameDay": s.CutoffSameDay.String(),
			"cutoffNextDay": s.CutoffNextDay.String(),
			"timezone":      s.Timezone,
			"updatedAt":     now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc settingsDocument
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": s.Shop}, update, opts).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w: Save - upsert settings: %v", settingsRepo.ErrExecQuery, err)
	}

	s.CreatedAt = doc.CreatedAt
	s.UpdatedAt = doc.UpdatedAt
	return s, nil
}

// ListStoredSlots возвращает слоты всех магазинов в формате хранения
func (r *SettingsRepository) ListStoredSlots(ctx context.Context) ([]domain.ShopStoredSlots, error) {
	opts := options.Find().
		SetProjection(bson.M{"timeSlots": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStoredSlots - find: %v", settingsRepo.ErrExecQuery, err)
	}
	defer cursor.Close(ctx)

	result := make([]domain.ShopStoredSlots, 0)
	for cursor.Next(ctx) {
		var doc settingsDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: ListStoredSlots - decode: %v", settingsRepo.ErrScanRow, err)
		}
		result = append(result, domain.ShopStoredSlots{Shop: doc.Shop, Slots: doc.TimeSlots})
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStoredSlots - cursor: %v", settingsRepo.ErrScanRow, err)
	}

	return result, nil
}

// ReplaceTimeSlots перезаписывает только слоты магазина
func (r *SettingsRepository) ReplaceTimeSlots(ctx context.Context, shop string, slots []domain.TimeSlot) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": shop}, bson.M{
		"$set": bson.M{
			"timeSlots": settingsRepo.ToStoredSlots(slots),
			"updatedAt": time.Now().UTC(),
		},
	})
	if err != nil {
		return fmt.Errorf("%w: ReplaceTimeSlots - update: %v", settingsRepo.ErrExecQuery, err)
	}
	if res.MatchedCount == 0 {
		return settingsRepo.ErrSettingsNotFound
	}
	return nil
}
