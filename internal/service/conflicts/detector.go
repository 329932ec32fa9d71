// Package conflicts decides whether a candidate booking window on a table
// overlaps any active reservation of the same table on the same date.
package conflicts

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Detector checks candidate windows against stored reservations. It performs no writes.
type Detector struct {
	repo ReservationRepository
}

// NewDetector создает детектор конфликтов
func NewDetector(repo ReservationRepository) *Detector {
	return &Detector{repo: repo}
}

// HasConflict reports whether [date+t, date+t+2h) strictly overlaps the window
// of any pending or confirmed reservation of the table on that date.
// excludeID skips one reservation, used when rescheduling it.
func (d *Detector) HasConflict(
	ctx context.Context,
	tableID int64,
	date time.Time,
	t types.TimeString,
	excludeID *int64,
) (bool, error) {
	candidate, err := domain.NewWindow(date, t)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}

	existing, err := d.repo.ListActiveByTableAndDate(ctx, tableID, date, excludeID)
	if err != nil {
		return false, fmt.Errorf("%w: HasConflict - list reservations table=%d: %v", ErrInternal, tableID, err)
	}

	windows, err := domain.ActiveWindows(existing, excludeID)
	if err != nil {
		return false, fmt.Errorf("%w: HasConflict - invalid stored time: %v", ErrInternal, err)
	}

	return candidate.OverlapsAny(windows), nil
}
