package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Window is a half-open interval [Start, End) a booking occupies a table
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds the booking window starting at date+t and lasting BookingWindowDuration
func NewWindow(date time.Time, t types.TimeString) (Window, error) {
	start, err := t.On(date)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: start.Add(BookingWindowDuration)}, nil
}

// Overlaps reports strict overlap. Windows that only touch do not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && w.End.After(other.Start)
}

// OverlapsAny reports whether w overlaps at least one of windows
func (w Window) OverlapsAny(windows []Window) bool {
	for _, other := range windows {
		if w.Overlaps(other) {
			return true
		}
	}
	return false
}

// ActiveWindows returns the windows of pending and confirmed reservations,
// skipping the one with excludeID when it is set.
func ActiveWindows(reservations []*Reservation, excludeID *int64) ([]Window, error) {
	windows := make([]Window, 0, len(reservations))
	for _, res := range reservations {
		if !res.IsActive() {
			continue
		}
		if excludeID != nil && res.ID == *excludeID {
			continue
		}

		w, err := res.Window()
		if err != nil {
			return nil, fmt.Errorf("reservation id=%d: %w", res.ID, err)
		}
		windows = append(windows, w)
	}
	return windows, nil
}
