package migrate_legacy_slots

// Request параметры миграции
type Request struct {
	SlotMinutes int  // длительность окна для слотов старого формата
	DryRun      bool // только посчитать, ничего не записывать
}

// Response итоги миграции
type Response struct {
	ShopsScanned    int
	ShopsMigrated   int
	SlotsConverted  int
	BookingsRekeyed int64
	FailedShops     []string
}
