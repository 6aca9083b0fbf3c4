package delete_zone

import "context"

type ZonesService interface {
	Delete(ctx context.Context, shop, id string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
