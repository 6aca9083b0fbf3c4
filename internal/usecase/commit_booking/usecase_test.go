package commit_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	settingsRepo "github.com/m04kA/SMC-DeliveryScheduler/internal/infra/storage/settings"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/availability"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/metrics"
)

const testShop = "demo.myshopify.com"

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeSettingsRepo struct {
	settings *domain.DeliverySettings
	err      error
}

func (f *fakeSettingsRepo) Get(_ context.Context, shop string) (*domain.DeliverySettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.settings == nil || f.settings.Shop != shop {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return f.settings, nil
}

type txKey struct{}

type fakeTx struct {
	releases []func()
}

// fakeTxManager держит блокировки, взятые в fn, до конца "транзакции"
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := &fakeTx{}
	defer func() {
		for _, release := range tx.releases {
			release()
		}
	}()
	return fn(context.WithValue(ctx, txKey{}, tx))
}

type memoryLedger struct {
	mu      sync.Mutex
	locks   map[domain.SlotKey]*sync.Mutex
	records []*domain.BookingRecord
	nextID  int
	delay   time.Duration
	err     error
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{locks: make(map[domain.SlotKey]*sync.Mutex)}
}

func (l *memoryLedger) LockSlot(ctx context.Context, key domain.SlotKey) error {
	tx, ok := ctx.Value(txKey{}).(*fakeTx)
	if !ok {
		return errors.New("not in transaction")
	}

	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	tx.releases = append(tx.releases, lock.Unlock)
	return nil
}

func (l *memoryLedger) Count(_ context.Context, shop, date string, slotID domain.SlotID) (int, error) {
	if l.err != nil {
		return 0, l.err
	}
	l.mu.Lock()
	n := 0
	for _, r := range l.records {
		if r.Shop == shop && r.Date == date && r.SlotID == slotID {
			n++
		}
	}
	l.mu.Unlock()

	// Расширяем окно между чтением и записью
	time.Sleep(l.delay)
	return n, nil
}

func (l *memoryLedger) Append(_ context.Context, record *domain.BookingRecord) (*domain.BookingRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	record.ID = fmt.Sprintf("b-%d", l.nextID)
	record.CreatedAt = time.Now()
	l.records = append(l.records, record)
	return record, nil
}

func (l *memoryLedger) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

type fakeMetrics struct {
	mu      sync.Mutex
	results map[string]int
}

func (f *fakeMetrics) IncBooking(result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.results == nil {
		f.results = make(map[string]int)
	}
	f.results[result]++
}

type fakeCache struct{ invalidated []string }

func (f *fakeCache) Invalidate(_ context.Context, shop string) error {
	f.invalidated = append(f.invalidated, shop)
	return nil
}

type fakePublisher struct {
	events []*domain.BookingRecord
	err    error
}

func (f *fakePublisher) BookingCommitted(_ context.Context, record *domain.BookingRecord) error {
	f.events = append(f.events, record)
	return f.err
}

func settingsWithCapacity(capacity int) *domain.DeliverySettings {
	return &domain.DeliverySettings{
		Shop:          testShop,
		BlackoutDates: []string{"2024-06-02"},
		TimeSlots:     []domain.TimeSlot{{StartTime: "09:00", EndTime: "11:00", Capacity: capacity}},
		CutoffSameDay: "08:00",
		CutoffNextDay: "08:00",
	}
}

var scenarioNow = time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)

func newUseCase(settings *domain.DeliverySettings, ledger *memoryLedger, m *fakeMetrics, cache CacheInvalidator, pub EventPublisher) *UseCase {
	return NewUseCase(
		&fakeSettingsRepo{settings: settings},
		ledger,
		availability.NewEngine(time.UTC),
		fakeTxManager{},
		cache,
		pub,
		m,
		nopLogger{},
	).WithTimeProvider(fixedTime{now: scenarioNow})
}

func request(orderID string) *Request {
	return &Request{
		Shop:       testShop,
		Date:       "2024-06-03",
		SlotID:     "9:00-11:00",
		OrderID:    orderID,
		CustomerID: "c-1",
	}
}

func TestExecute_Success(t *testing.T) {
	ledger := newMemoryLedger()
	m := &fakeMetrics{}
	cache := &fakeCache{}
	pub := &fakePublisher{}
	uc := newUseCase(settingsWithCapacity(2), ledger, m, cache, pub)

	resp, err := uc.Execute(context.Background(), request("1001"))
	require.NoError(t, err)

	assert.Equal(t, "09:00-11:00", resp.SlotID)
	assert.Equal(t, "2024-06-03", resp.Date)
	assert.Equal(t, 1, resp.Remaining)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 1, ledger.len())
	assert.Equal(t, 1, m.results[metrics.BookingCommitted])
	assert.Equal(t, []string{testShop}, cache.invalidated)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "1001", pub.events[0].OrderID)
}

func TestExecute_CapacityExceeded(t *testing.T) {
	ledger := newMemoryLedger()
	m := &fakeMetrics{}
	uc := newUseCase(settingsWithCapacity(1), ledger, m, nil, nil)

	_, err := uc.Execute(context.Background(), request("1001"))
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), request("1002"))
	require.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, 1, ledger.len())
	assert.Equal(t, 1, m.results[metrics.BookingCapacityExceeded])
}

func TestExecute_ConcurrentCommitsOnLastSeat(t *testing.T) {
	ledger := newMemoryLedger()
	ledger.delay = 20 * time.Millisecond
	uc := newUseCase(settingsWithCapacity(1), ledger, &fakeMetrics{}, nil, nil)

	var (
		wg       sync.WaitGroup
		start    = make(chan struct{})
		errs     = make([]error, 2)
		orderIDs = []string{"2001", "2002"}
	)
	for i := range orderIDs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = uc.Execute(context.Background(), request(orderIDs[i]))
		}(i)
	}
	close(start)
	wg.Wait()

	successes, exceeded := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlotNotAvailable):
			exceeded++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, exceeded)
	assert.Equal(t, 1, ledger.len())
}

func TestExecute_NotOffered(t *testing.T) {
	tests := []struct {
		name string
		mod  func(r *Request)
	}{
		{name: "blackout", mod: func(r *Request) { r.Date = "2024-06-02" }},
		{name: "unknown slot", mod: func(r *Request) { r.SlotID = "10:00-12:00" }},
		{name: "outside horizon", mod: func(r *Request) { r.Date = "2024-06-10" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := newMemoryLedger()
			uc := newUseCase(settingsWithCapacity(2), ledger, &fakeMetrics{}, nil, nil)

			req := request("1001")
			tt.mod(req)

			_, err := uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, ErrSlotNotOffered)
			assert.Equal(t, 0, ledger.len())
		})
	}
}

func TestExecute_ShopNotConfigured(t *testing.T) {
	uc := newUseCase(nil, newMemoryLedger(), &fakeMetrics{}, nil, nil)

	_, err := uc.Execute(context.Background(), request("1001"))
	require.ErrorIs(t, err, ErrSettingsNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		mod  func(r *Request)
	}{
		{name: "no shop", mod: func(r *Request) { r.Shop = "" }},
		{name: "no order", mod: func(r *Request) { r.OrderID = " " }},
		{name: "bad date", mod: func(r *Request) { r.Date = "03.06.2024" }},
		{name: "bad slot", mod: func(r *Request) { r.SlotID = "morning" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(settingsWithCapacity(2), newMemoryLedger(), &fakeMetrics{}, nil, nil)

			req := request("1001")
			tt.mod(req)

			_, err := uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_StorageError(t *testing.T) {
	ledger := newMemoryLedger()
	ledger.err = errors.New("connection reset")
	m := &fakeMetrics{}
	uc := newUseCase(settingsWithCapacity(2), ledger, m, nil, nil)

	_, err := uc.Execute(context.Background(), request("1001"))
	require.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 1, m.results[metrics.BookingFailed])
}

func TestExecute_PublishErrorKeepsBooking(t *testing.T) {
	ledger := newMemoryLedger()
	pub := &fakePublisher{err: errors.New("channel closed")}
	uc := newUseCase(settingsWithCapacity(2), ledger, &fakeMetrics{}, nil, pub)

	_, err := uc.Execute(context.Background(), request("1001"))
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.len())
}
