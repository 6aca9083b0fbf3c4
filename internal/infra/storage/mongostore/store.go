package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	settingsCollection = "delivery_settings"
	bookingsCollection = "delivery_bookings"
	guardsCollection   = "slot_guards"
	zonesCollection    = "delivery_zones"
)

// Store подключение к MongoDB и коллекции сервиса
// Транзакции требуют replica set
type Store struct {
	client   *mongo.Client
	settings *mongo.Collection
	bookings *mongo.Collection
	guards   *mongo.Collection
	zones    *mongo.Collection
}

// Connect подключается к MongoDB и проверяет соединение
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}

	db := client.Database(database)
	return &Store{
		client:   client,
		settings: db.Collection(settingsCollection),
		bookings: db.Collection(bookingsCollection),
		guards:   db.Collection(guardsCollection),
		zones:    db.Collection(zonesCollection),
	}, nil
}

// EnsureIndexes создает индексы, нужные для подсчёта бронирований и выборок
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "shop", Value: 1}, {Key: "date", Value: 1}, {Key: "slotId", Value: 1}}},
		{Keys: bson.D{{Key: "shop", Value: 1}, {Key: "orderId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("mongostore: create booking indexes: %w", err)
	}

	_, err = s.zones.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "shop", Value: 1}, {Key: "name", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("mongostore: create zone indexes: %w", err)
	}

	return nil
}

// Ping проверяет доступность MongoDB
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close закрывает подключение
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Settings возвращает репозиторий настроек
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{coll: s.settings}
}

// Ledger возвращает журнал бронирований
func (s *Store) Ledger() *LedgerRepository {
	return &LedgerRepository{coll: s.bookings, guards: s.guards}
}

// Zones возвращает репозиторий зон доставки
func (s *Store) Zones() *ZoneRepository {
	return &ZoneRepository{coll: s.zones}
}

// TxManager возвращает менеджер транзакций на сессиях MongoDB
func (s *Store) TxManager() *TxManager {
	return &TxManager{client: s.client}
}
