// Package validation decides whether a proposed booking may be accepted.
// All checks run and every failure is reported at once.
package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Input кандидат на бронирование
type Input struct {
	Table      *domain.Table
	Restaurant *domain.Restaurant
	Date       time.Time
	Time       types.TimeString
	GuestCount int

	// ExcludeReservationID исключает бронирование из проверки конфликтов (перенос)
	ExcludeReservationID *int64
}

// Validator валидатор бронирований. Ничего не пишет в хранилище.
type Validator struct {
	detector     ConflictDetector
	timeProvider TimeProvider
	logger       Logger
}

// NewValidator создает новый экземпляр валидатора
func NewValidator(detector ConflictDetector, logger Logger) *Validator {
	return &Validator{
		detector:     detector,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (v *Validator) WithTimeProvider(tp TimeProvider) *Validator {
	v.timeProvider = tp
	return v
}

// Validate runs the date, capacity, operating hours and conflict checks.
// Returns nil, a *ValidationError, or a wrapped ErrInternal.
func (v *Validator) Validate(ctx context.Context, in Input) error {
	if in.Table == nil || in.Restaurant == nil {
		return fmt.Errorf("%w: table and restaurant are required", ErrInvalidInput)
	}

	vErr := newValidationError()

	if !in.Table.IsActive {
		vErr.addField(FieldTable, MsgTableInactive)
	}

	v.checkDate(vErr, in.Date)
	checkCapacity(vErr, in.Table, in.GuestCount)
	if checkHours(vErr, in.Restaurant, in.Time) {
		if err := v.checkConflict(ctx, vErr, in); err != nil {
			return err
		}
	}

	if vErr.empty() {
		return nil
	}

	v.logger.Warn("Validate: table=%d date=%s time=%s rejected: %v",
		in.Table.ID, in.Date.Format(domain.DateFormat), in.Time, vErr)
	return vErr
}

// ValidateSlot skips the guest count checks.
// Used for availability lookups where the guest count is unknown.
func (v *Validator) ValidateSlot(ctx context.Context, in Input) error {
	if in.Table == nil || in.Restaurant == nil {
		return fmt.Errorf("%w: table and restaurant are required", ErrInvalidInput)
	}

	vErr := newValidationError()

	if !in.Table.IsActive {
		vErr.addField(FieldTable, MsgTableInactive)
	}
	v.checkDate(vErr, in.Date)
	if checkHours(vErr, in.Restaurant, in.Time) {
		if err := v.checkConflict(ctx, vErr, in); err != nil {
			return err
		}
	}

	if vErr.empty() {
		return nil
	}
	return vErr
}

func (v *Validator) checkDate(vErr *ValidationError, date time.Time) {
	now := v.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	if day.Before(today) {
		vErr.addField(FieldDate, MsgPastDate)
	}
}

// checkCapacity: превышение вместимости стола всегда сообщается с максимумом стола,
// общий предел 20 гостей срабатывает только для столов больше 20 мест
func checkCapacity(vErr *ValidationError, table *domain.Table, guestCount int) {
	switch {
	case guestCount < domain.MinGuestCount:
		vErr.addField(FieldGuestCount, MsgGuestCountMin)
	case !table.Fits(guestCount):
		vErr.addField(FieldGuestCount, fmt.Sprintf(MsgTableCapacity, table.Capacity))
	case guestCount > domain.MaxGuestCount:
		vErr.addField(FieldGuestCount, MsgGuestCountMax)
	}
}

// checkHours возвращает false, только если время не разбирается
func checkHours(vErr *ValidationError, restaurant *domain.Restaurant, t types.TimeString) bool {
	if err := t.Validate(); err != nil {
		vErr.addField(FieldTime, MsgInvalidTimeValue)
		return false
	}

	if !restaurant.IsOpenAt(t) {
		vErr.addField(FieldTime, fmt.Sprintf(MsgOperatingHours, restaurant.OpeningTime, restaurant.ClosingTime))
	}

	return true
}

func (v *Validator) checkConflict(ctx context.Context, vErr *ValidationError, in Input) error {
	conflict, err := v.detector.HasConflict(ctx, in.Table.ID, in.Date, in.Time, in.ExcludeReservationID)
	if err != nil {
		v.logger.Error("Validate: conflict check failed for table=%d: %v", in.Table.ID, err)
		return fmt.Errorf("%w: conflict check: %v", ErrInternal, err)
	}

	if conflict {
		vErr.addConflict()
	}
	return nil
}
