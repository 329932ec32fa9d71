package domain

import "github.com/m04kA/SMC-ReservationService/pkg/types"

// AvailableTime is a candidate start time on a table for a given date
type AvailableTime struct {
	StartTime types.TimeString
	Available bool
}

// CountAvailable returns how many candidate times are free
func CountAvailable(times []AvailableTime) int {
	n := 0
	for _, t := range times {
		if t.Available {
			n++
		}
	}
	return n
}
