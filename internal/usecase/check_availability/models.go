package check_availability

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/service/validation"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса проверки доступности стола
type Request struct {
	TableID int64
	Date    time.Time
	Time    types.TimeString
}

// Response результат проверки; при Available=false в Errors перечислены причины
type Response struct {
	TableID   int64
	Date      time.Time
	Time      types.TimeString
	EndTime   types.TimeString
	Available bool
	Errors    *validation.ValidationError
}
