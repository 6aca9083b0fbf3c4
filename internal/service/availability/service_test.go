package availability

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
)

const testShop = "demo.myshopify.com"

type memoryLedger struct {
	mu     sync.Mutex
	counts map[domain.SlotKey]int
	err    error
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{counts: make(map[domain.SlotKey]int)}
}

func (l *memoryLedger) Count(_ context.Context, shop, date string, slotID domain.SlotID) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return 0, l.err
	}
	return l.counts[domain.SlotKey{Shop: shop, Date: date, SlotID: slotID}], nil
}

func (l *memoryLedger) add(date string, slotID domain.SlotID, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[domain.SlotKey{Shop: testShop, Date: date, SlotID: slotID}] += n
}

func scenarioSettings() *domain.DeliverySettings {
	return &domain.DeliverySettings{
		Shop:          testShop,
		BlackoutDates: []string{"2024-06-02"},
		TimeSlots: []domain.TimeSlot{
			{StartTime: "09:00", EndTime: "11:00", Capacity: 2},
		},
		CutoffSameDay: "08:00",
		CutoffNextDay: "08:00",
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 1, hour, minute, 0, 0, time.UTC)
}

func dates(view domain.AvailabilityView) []string {
	result := make([]string, 0, len(view))
	for _, day := range view {
		result = append(result, day.Date)
	}
	return result
}

func TestEngine_Compute_BeforeSameDayCutoff(t *testing.T) {
	engine := NewEngine(time.UTC)

	view, err := engine.Compute(context.Background(), scenarioSettings(), at(7, 0), newMemoryLedger())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2024-06-01", "2024-06-03", "2024-06-04", "2024-06-05", "2024-06-06", "2024-06-07",
	}, dates(view))

	for _, day := range view {
		require.Len(t, day.Slots, 1)
		assert.Equal(t, domain.SlotID("09:00-11:00"), day.Slots[0].ID)
		assert.Equal(t, 2, day.Slots[0].Capacity)
	}
}

func TestEngine_Compute_AfterSameDayCutoff(t *testing.T) {
	engine := NewEngine(time.UTC)

	view, err := engine.Compute(context.Background(), scenarioSettings(), at(8, 30), newMemoryLedger())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2024-06-03", "2024-06-04", "2024-06-05", "2024-06-06", "2024-06-07",
	}, dates(view))
}

func TestEngine_Compute_FullSlotOmitted(t *testing.T) {
	engine := NewEngine(time.UTC)
	ledger := newMemoryLedger()
	ledger.add("2024-06-03", "09:00-11:00", 2)

	view, err := engine.Compute(context.Background(), scenarioSettings(), at(7, 0), ledger)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2024-06-01", "2024-06-04", "2024-06-05", "2024-06-06", "2024-06-07",
	}, dates(view))
	for _, day := range view {
		assert.Equal(t, 2, day.Slots[0].Capacity)
	}
}

func TestEngine_Compute_NextDayCutoff(t *testing.T) {
	engine := NewEngine(time.UTC)
	settings := scenarioSettings()
	settings.BlackoutDates = nil
	settings.CutoffSameDay = ""
	settings.CutoffNextDay = "18:00"

	view, err := engine.Compute(context.Background(), settings, at(19, 0), newMemoryLedger())
	require.NoError(t, err)

	// Сегодня слот уже начался, завтра закрыт cutoff'ом
	assert.Equal(t, []string{
		"2024-06-03", "2024-06-04", "2024-06-05", "2024-06-06", "2024-06-07",
	}, dates(view))

	view, err = engine.Compute(context.Background(), settings, at(6, 0), newMemoryLedger())
	require.NoError(t, err)
	assert.Len(t, view, domain.HorizonDays)
}

func TestEngine_Compute_NotConfigured(t *testing.T) {
	engine := NewEngine(time.UTC)

	view, err := engine.Compute(context.Background(), nil, at(7, 0), newMemoryLedger())
	require.NoError(t, err)
	assert.Empty(t, view)

	view, err = engine.Compute(context.Background(), &domain.DeliverySettings{Shop: testShop}, at(7, 0), newMemoryLedger())
	require.NoError(t, err)
	assert.Empty(t, view)
}

func TestEngine_Compute_SlotOrderPreserved(t *testing.T) {
	engine := NewEngine(time.UTC)
	settings := &domain.DeliverySettings{
		Shop: testShop,
		TimeSlots: []domain.TimeSlot{
			{StartTime: "14:00", EndTime: "16:00", Capacity: 1},
			{StartTime: "09:00", EndTime: "11:00", Capacity: 3},
		},
	}

	view, err := engine.Compute(context.Background(), settings, at(6, 0), newMemoryLedger())
	require.NoError(t, err)
	require.NotEmpty(t, view)

	for _, day := range view {
		require.Len(t, day.Slots, 2)
		assert.Equal(t, domain.SlotID("14:00-16:00"), day.Slots[0].ID)
		assert.Equal(t, domain.SlotID("09:00-11:00"), day.Slots[1].ID)
	}
}

func TestEngine_Compute_Idempotent(t *testing.T) {
	engine := NewEngine(time.UTC)
	ledger := newMemoryLedger()
	ledger.add("2024-06-04", "09:00-11:00", 1)

	first, err := engine.Compute(context.Background(), scenarioSettings(), at(7, 0), ledger)
	require.NoError(t, err)
	second, err := engine.Compute(context.Background(), scenarioSettings(), at(7, 0), ledger)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestEngine_Compute_Monotonic(t *testing.T) {
	engine := NewEngine(time.UTC)
	ledger := newMemoryLedger()
	settings := scenarioSettings()

	remaining := func() (int, bool) {
		view, err := engine.Compute(context.Background(), settings, at(7, 0), ledger)
		require.NoError(t, err)
		slot, ok := view.Find("2024-06-05", "09:00-11:00")
		return slot.Capacity, ok
	}

	before, ok := remaining()
	require.True(t, ok)
	assert.Equal(t, 2, before)

	ledger.add("2024-06-05", "09:00-11:00", 1)
	after, ok := remaining()
	require.True(t, ok)
	assert.Equal(t, before-1, after)

	ledger.add("2024-06-05", "09:00-11:00", 1)
	_, ok = remaining()
	assert.False(t, ok)

	// Перебронирование не возвращает слот в выдачу
	ledger.add("2024-06-05", "09:00-11:00", 1)
	_, ok = remaining()
	assert.False(t, ok)
}

func TestEngine_Compute_ShopTimezone(t *testing.T) {
	engine := NewEngine(time.UTC)
	settings := scenarioSettings()
	settings.BlackoutDates = nil
	settings.Timezone = "Asia/Tokyo"

	// 2024-06-01 20:00 UTC = 2024-06-02 05:00 в Токио
	view, err := engine.Compute(context.Background(), settings, at(20, 0), newMemoryLedger())
	require.NoError(t, err)
	require.NotEmpty(t, view)
	assert.Equal(t, "2024-06-02", view[0].Date)
	assert.Equal(t, "2024-06-08", view[len(view)-1].Date)
}

func TestEngine_Compute_CounterError(t *testing.T) {
	engine := NewEngine(time.UTC)
	ledger := newMemoryLedger()
	ledger.err = errors.New("connection refused")

	_, err := engine.Compute(context.Background(), scenarioSettings(), at(7, 0), ledger)
	require.ErrorIs(t, err, ErrCountBookings)
}

func TestEngine_Compute_PrefetchedCounts(t *testing.T) {
	engine := NewEngine(time.UTC)
	counts := Counts{
		{Shop: testShop, Date: "2024-06-03", SlotID: "09:00-11:00"}: 1,
	}

	view, err := engine.Compute(context.Background(), scenarioSettings(), at(7, 0), counts)
	require.NoError(t, err)

	slot, ok := view.Find("2024-06-03", "09:00-11:00")
	require.True(t, ok)
	assert.Equal(t, 1, slot.Capacity)
}

func TestEngine_CheckOffered(t *testing.T) {
	engine := NewEngine(time.UTC)
	settings := scenarioSettings()

	tests := []struct {
		name    string
		now     time.Time
		date    string
		slotID  domain.SlotID
		wantErr error
	}{
		{name: "offered", now: at(7, 0), date: "2024-06-03", slotID: "09:00-11:00"},
		{name: "today before cutoff", now: at(7, 0), date: "2024-06-01", slotID: "09:00-11:00"},
		{name: "today after cutoff", now: at(8, 30), date: "2024-06-01", slotID: "09:00-11:00", wantErr: ErrCutoffPassed},
		{name: "blackout", now: at(7, 0), date: "2024-06-02", slotID: "09:00-11:00", wantErr: ErrBlackoutDate},
		{name: "unknown slot", now: at(7, 0), date: "2024-06-03", slotID: "10:00-12:00", wantErr: ErrUnknownSlot},
		{name: "past date", now: at(7, 0), date: "2024-05-31", slotID: "09:00-11:00", wantErr: ErrOutsideHorizon},
		{name: "beyond horizon", now: at(7, 0), date: "2024-06-08", slotID: "09:00-11:00", wantErr: ErrOutsideHorizon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, err := engine.CheckOffered(settings, tt.now, tt.date, tt.slotID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, slot.Capacity)
		})
	}
}
