package bookings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	ledgerRepo "github.com/m04kA/SMC-DeliveryScheduler/internal/infra/storage/ledger"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/bookings/models"
)

const testShop = "demo.myshopify.com"

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type memoryLedger struct {
	records []*domain.BookingRecord
	err     error
}

func (m *memoryLedger) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.BookingRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.BookingRecord
	for _, r := range m.records {
		if r.Shop != filter.Shop {
			continue
		}
		if filter.Date != nil && r.Date != *filter.Date {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memoryLedger) DeleteByOrder(_ context.Context, shop, orderID string) ([]*domain.BookingRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var kept, removed []*domain.BookingRecord
	for _, r := range m.records {
		if r.Shop == shop && r.OrderID == orderID {
			removed = append(removed, r)
			continue
		}
		kept = append(kept, r)
	}
	if len(removed) == 0 {
		return nil, ledgerRepo.ErrBookingNotFound
	}
	m.records = kept
	return removed, nil
}

type fakeCache struct{ invalidated []string }

func (f *fakeCache) Invalidate(_ context.Context, shop string) error {
	f.invalidated = append(f.invalidated, shop)
	return nil
}

type fakePublisher struct {
	cancelled []*domain.BookingRecord
	err       error
}

func (f *fakePublisher) BookingCancelled(_ context.Context, records []*domain.BookingRecord) error {
	f.cancelled = append(f.cancelled, records...)
	return f.err
}

func seedLedger() *memoryLedger {
	return &memoryLedger{records: []*domain.BookingRecord{
		{ID: "1", Shop: testShop, Date: "2024-06-04", SlotID: "14:00-16:00", OrderID: "o-1"},
		{ID: "2", Shop: testShop, Date: "2024-06-03", SlotID: "14:00-16:00", OrderID: "o-2"},
		{ID: "3", Shop: testShop, Date: "2024-06-03", SlotID: "09:00-11:00", OrderID: "o-3"},
		{ID: "4", Shop: "other.myshopify.com", Date: "2024-06-03", SlotID: "09:00-11:00", OrderID: "o-1"},
		{ID: "5", Shop: testShop, Date: "2024-06-05", SlotID: "09:00-11:00", OrderID: "o-1"},
	}}
}

func TestList_OrderedByDateThenSlot(t *testing.T) {
	svc := NewService(seedLedger(), nil, nil, nopLogger{})

	resp, err := svc.List(context.Background(), &models.ListBookingsRequest{Shop: testShop})
	require.NoError(t, err)

	ids := make([]string, 0, len(resp.Bookings))
	for _, b := range resp.Bookings {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"3", "2", "1", "5"}, ids)
}

func TestList_FilterByDate(t *testing.T) {
	svc := NewService(seedLedger(), nil, nil, nopLogger{})
	date := "2024-06-03"

	resp, err := svc.List(context.Background(), &models.ListBookingsRequest{Shop: testShop, Date: &date})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, "09:00-11:00", resp.Bookings[0].SlotID)
}

func TestList_InvalidInput(t *testing.T) {
	svc := NewService(seedLedger(), nil, nil, nopLogger{})
	bad := "03.06.2024"

	_, err := svc.List(context.Background(), &models.ListBookingsRequest{Shop: testShop, Date: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.List(context.Background(), &models.ListBookingsRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_RepositoryError(t *testing.T) {
	svc := NewService(&memoryLedger{err: errors.New("boom")}, nil, nil, nopLogger{})

	_, err := svc.List(context.Background(), &models.ListBookingsRequest{Shop: testShop})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestCancelByOrder(t *testing.T) {
	ledger := seedLedger()
	cache := &fakeCache{}
	publisher := &fakePublisher{}
	svc := NewService(ledger, cache, publisher, nopLogger{})

	resp, err := svc.CancelByOrder(context.Background(), &models.CancelByOrderRequest{Shop: testShop, OrderID: "o-1"})
	require.NoError(t, err)

	assert.Len(t, resp.Released, 2)
	assert.Len(t, ledger.records, 3)
	assert.Equal(t, []string{testShop}, cache.invalidated)
	assert.Len(t, publisher.cancelled, 2)
}

func TestCancelByOrder_NotFound(t *testing.T) {
	cache := &fakeCache{}
	svc := NewService(seedLedger(), cache, nil, nopLogger{})

	_, err := svc.CancelByOrder(context.Background(), &models.CancelByOrderRequest{Shop: testShop, OrderID: "missing"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Empty(t, cache.invalidated)
}

func TestCancelByOrder_PublishErrorIsNotFatal(t *testing.T) {
	svc := NewService(seedLedger(), nil, &fakePublisher{err: errors.New("amqp down")}, nopLogger{})

	resp, err := svc.CancelByOrder(context.Background(), &models.CancelByOrderRequest{Shop: testShop, OrderID: "o-2"})
	require.NoError(t, err)
	assert.Len(t, resp.Released, 1)
}

func TestCancelByOrder_InvalidInput(t *testing.T) {
	svc := NewService(seedLedger(), nil, nil, nopLogger{})

	_, err := svc.CancelByOrder(context.Background(), &models.CancelByOrderRequest{Shop: testShop})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
