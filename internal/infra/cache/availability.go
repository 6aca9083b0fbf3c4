package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
)

const keyPrefix = "availability"

// AvailabilityCache кеш вычисленных представлений доступности в Redis
//
// Ключ: availability:{shop}:v{version}:{minute}. Представление зависит от "сейчас" только
// с точностью до минуты, поэтому минутный ключ не меняет результат.
// Версия магазина увеличивается при каждом бронировании, отмене и сохранении настроек,
// после чего старые ключи больше не читаются и истекают по TTL.
type AvailabilityCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewAvailabilityCache создает кеш доступности
func NewAvailabilityCache(client redis.Cmdable, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

// Get возвращает закешированное представление и текущую версию магазина; ok == false при промахе
// Версию нужно передать в Set: представление, вычисленное после Get, сохраняется под ней,
// и инвалидация, случившаяся во время вычисления, делает его недоступным
func (c *AvailabilityCache) Get(ctx context.Context, shop string, now time.Time) (domain.AvailabilityView, int64, bool, error) {
	version, err := c.version(ctx, shop)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.client.Get(ctx, viewKey(shop, version, now)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, version, false, fmt.Errorf("%w: get view shop=%s: %v", ErrCacheRead, shop, err)
	}

	var view domain.AvailabilityView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, version, false, fmt.Errorf("%w: shop=%s: %v", ErrDecode, shop, err)
	}

	return view, version, true, nil
}

// Set сохраняет представление под версией, прочитанной до его вычисления
func (c *AvailabilityCache) Set(ctx context.Context, shop string, version int64, now time.Time, view domain.AvailabilityView) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("%w: encode view shop=%s: %v", ErrCacheWrite, shop, err)
	}

	if err := c.client.Set(ctx, viewKey(shop, version, now), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set view shop=%s: %v", ErrCacheWrite, shop, err)
	}

	return nil
}

// Invalidate делает все закешированные представления магазина недоступными
func (c *AvailabilityCache) Invalidate(ctx context.Context, shop string) error {
	if err := c.client.Incr(ctx, versionKey(shop)).Err(); err != nil {
		return fmt.Errorf("%w: bump version shop=%s: %v", ErrCacheWrite, shop, err)
	}
	return nil
}

func (c *AvailabilityCache) version(ctx context.Context, shop string) (int64, error) {
	version, err := c.client.Get(ctx, versionKey(shop)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: get version shop=%s: %v", ErrCacheRead, shop, err)
	}
	return version, nil
}

func versionKey(shop string) string {
	return fmt.Sprintf("%s:%s:version", keyPrefix, shop)
}

func viewKey(shop string, version int64, now time.Time) string {
	return fmt.Sprintf("%s:%s:v%d:%s", keyPrefix, shop, version, now.UTC().Format("200601021504"))
}
