package validation

import (
	"errors"
	"sort"
	"strings"
)

// Поля, к которым привязываются ошибки валидации
const (
	FieldDate       = "date"
	FieldTime       = "time"
	FieldGuestCount = "guest_count"
	FieldTable      = "table"
)

// Тексты ошибок валидации
const (
	MsgPastDate         = "Cannot book reservations in the past. Please select a future date."
	MsgGuestCountMin    = "Guest count must be at least 1."
	MsgGuestCountMax    = "Guest count cannot exceed 20."
	MsgTableCapacity    = "This table can accommodate maximum %d guests. Please select a larger table or reduce guest count."
	MsgOperatingHours   = "Restaurant operates from %s to %s. Please select a time within operating hours."
	MsgTableInactive    = "Selected table is not available for booking."
	MsgSlotConflict     = "This time slot is not available for this table. Please choose a different time (2-hour window conflict detected)."
	MsgInvalidTimeValue = "Enter a valid time in HH:MM format."
)

var (
	// ErrValidation сопоставляется (errors.Is) с любой *ValidationError
	ErrValidation = errors.New("validation: booking is invalid")

	// ErrInvalidInput возвращается, если не переданы стол или ресторан
	ErrInvalidInput = errors.New("validation: invalid input data")

	// ErrInternal возвращается при сбое проверки конфликтов
	ErrInternal = errors.New("validation: internal error")
)

// ValidationError собирает все нарушения одной проверки.
// Fields привязаны к полям ввода, NonField относятся к комбинации стол+время.
type ValidationError struct {
	Fields   map[string]string
	NonField []string

	// Conflict выставляется, если среди нарушений есть пересечение окон
	Conflict bool
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// addField сохраняет первое сообщение для поля
func (e *ValidationError) addField(field, msg string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = msg
}

func (e *ValidationError) addConflict() {
	e.NonField = append(e.NonField, MsgSlotConflict)
	e.Conflict = true
}

// NewConflictError ошибка занятого окна, когда конфликт обнаружен хранилищем при вставке
func NewConflictError() *ValidationError {
	e := newValidationError()
	e.addConflict()
	return e
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0 && len(e.NonField) == 0
}

// IsConflictOnly возвращает true, если единственная причина отказа - занятое окно
func (e *ValidationError) IsConflictOnly() bool {
	return e.Conflict && len(e.Fields) == 0 && len(e.NonField) == 1
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+len(e.NonField))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	parts = append(parts, e.NonField...)

	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is позволяет errors.Is(err, ErrValidation)
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// AsValidationError извлекает *ValidationError из цепочки ошибок
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
