package ledger

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирования заказа не найдены
	ErrBookingNotFound = errors.New("ledger.repository: booking not found")

	// ErrNotInTransaction возвращается, когда блокировку слота запросили вне транзакции
	ErrNotInTransaction = errors.New("ledger.repository: slot lock requires a transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("ledger.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("ledger.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("ledger.repository: failed to scan row")
)
