package domain

// Горизонт бронирования: сегодня + 6 дней
const HorizonDays = 7

// Business validation constants
const (
	MinSlotCapacity     = 1
	MaxSlotCapacity     = 10000
	MaxTimeSlots        = 96
	MaxBlackoutDates    = 730
	MaxZoneNameLength   = 200
	MaxExternalIDLength = 255
)

// DefaultLegacySlotMinutes длительность окна для слотов старого формата {time, capacity}
const DefaultLegacySlotMinutes = 60

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
