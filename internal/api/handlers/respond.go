package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/service/validation"
)

const (
	msgInternalError = "внутренняя ошибка сервера"
	maxBodyBytes     = 1 << 20
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ValidationErrorResponse тело ответа при нарушении правил бронирования
type ValidationErrorResponse struct {
	Errors         map[string]string `json:"errors"`
	NonFieldErrors []string          `json:"nonFieldErrors"`
}

// DecodeJSON читает тело запроса; неизвестные поля и пустое тело считаются ошибкой
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// RespondError отправляет ошибку с произвольным статусом
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// NewValidationErrorResponse переводит ошибку валидации в тело ответа
func NewValidationErrorResponse(vErr *validation.ValidationError) ValidationErrorResponse {
	resp := ValidationErrorResponse{
		Errors:         make(map[string]string, len(vErr.Fields)),
		NonFieldErrors: make([]string, 0, len(vErr.NonField)),
	}
	for field, msg := range vErr.Fields {
		resp.Errors[field] = msg
	}
	resp.NonFieldErrors = append(resp.NonFieldErrors, vErr.NonField...)
	return resp
}

// RespondValidationError отдает 409, если единственная причина - занятое окно, иначе 400
func RespondValidationError(w http.ResponseWriter, vErr *validation.ValidationError) {
	status := http.StatusBadRequest
	if vErr.IsConflictOnly() {
		status = http.StatusConflict
	}
	RespondJSON(w, status, NewValidationErrorResponse(vErr))
}
