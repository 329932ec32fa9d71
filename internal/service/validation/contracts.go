package validation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ConflictDetector интерфейс детектора пересечений окон бронирования
type ConflictDetector interface {
	HasConflict(ctx context.Context, tableID int64, date time.Time, t types.TimeString, excludeID *int64) (bool, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
