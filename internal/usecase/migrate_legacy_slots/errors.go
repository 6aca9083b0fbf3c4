package migrate_legacy_slots

import "errors"

var (
	// ErrInternal возвращается, если не удалось прочитать настройки
	ErrInternal = errors.New("migrate_legacy_slots: internal error")

	// ErrShopFailed возвращается, если хотя бы один магазин не удалось мигрировать
	ErrShopFailed = errors.New("migrate_legacy_slots: some shops were not migrated")
)
