// Package apperr описывает таксономию ошибок приема заказа: каждая ошибка
// несет HTTP-статус, машинный код и сообщение для клиента.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Коды ошибок, видимые клиенту.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeResourceNotFound  = "RESOURCE_NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
	CodeBusinessClosed    = "CLOSED"
	CodeServiceDisabled   = "SERVICE_DISABLED"
	CodeDeliveryDisabled  = "DELIVERY_DISABLED"
	CodeConfigMissing     = "CONFIG_MISSING"
	CodeOutOfRange        = "OUT_OF_RANGE"
	CodeFeeMismatch       = "FEE_MISMATCH"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeConflict          = "CONFLICT"
	CodeInternal          = "INTERNAL_ERROR"
)

// AppError - ошибка с фиксированным HTTP-статусом и сообщением для клиента.
type AppError interface {
	error
	HTTPCode() int
	ErrorCode() string
	Message() string
	Details() map[string]any
}

// Error - базовая реализация AppError.
type Error struct {
	httpCode  int
	errorCode string
	message   string
	details   map[string]any
}

func newError(httpCode int, code, message string) *Error {
	return &Error{httpCode: httpCode, errorCode: code, message: message}
}

func (e *Error) Error() string           { return e.message }
func (e *Error) HTTPCode() int           { return e.httpCode }
func (e *Error) ErrorCode() string       { return e.errorCode }
func (e *Error) Message() string         { return e.message }
func (e *Error) Details() map[string]any { return e.details }

// WithDetails возвращает копию ошибки с дополнительными полями ответа.
func (e *Error) WithDetails(details map[string]any) *Error {
	return &Error{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// WrapMessage добавляет контекст для логов, сохраняя стек.
func (e *Error) WrapMessage(message string) error {
	return pkgerrors.Wrap(e, message)
}

// Is сравнивает ошибки по коду, чтобы errors.Is работал с разными сообщениями.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.errorCode == e.errorCode
}

// Эталоны для errors.Is.
var (
	ErrNotFound          = newError(http.StatusNotFound, CodeNotFound, "not found")
	ErrResourceNotFound  = newError(http.StatusBadRequest, CodeResourceNotFound, "resource not found")
	ErrValidation        = newError(http.StatusBadRequest, CodeValidation, "invalid request")
	ErrBusinessClosed    = newError(http.StatusBadRequest, CodeBusinessClosed, "business is temporarily closed")
	ErrServiceDisabled   = newError(http.StatusBadRequest, CodeServiceDisabled, "service is not available")
	ErrDeliveryDisabled  = newError(http.StatusBadRequest, CodeDeliveryDisabled, "delivery is not available for this business")
	ErrConfigMissing     = newError(http.StatusBadRequest, CodeConfigMissing, "delivery is not configured for this business")
	ErrOutOfRange        = newError(http.StatusBadRequest, CodeOutOfRange, "address is outside the delivery area")
	ErrFeeMismatch       = newError(http.StatusBadRequest, CodeFeeMismatch, "delivery fee mismatch")
	ErrInsufficientStock = newError(http.StatusBadRequest, CodeInsufficientStock, "insufficient stock")
	ErrConflict          = newError(http.StatusConflict, CodeConflict, "order conflict, please try again")
	ErrInternal          = newError(http.StatusInternalServerError, CodeInternal, "internal server error")
)

func NotFound(format string, args ...any) *Error {
	return newError(http.StatusNotFound, CodeNotFound, fmt.Sprintf(format, args...))
}

// ResourceNotFound - отсутствующий товар, вариант или почтовый тариф (ошибка запроса, 400).
func ResourceNotFound(format string, args ...any) *Error {
	return newError(http.StatusBadRequest, CodeResourceNotFound, fmt.Sprintf(format, args...))
}

func Validation(format string, args ...any) *Error {
	return newError(http.StatusBadRequest, CodeValidation, fmt.Sprintf(format, args...))
}

// BusinessClosed переносит причину и сообщение о закрытии в details.
func BusinessClosed(reason, message string) *Error {
	return ErrBusinessClosed.WithDetails(map[string]any{
		"reason":  reason,
		"message": message,
	})
}

func ServiceDisabled(format string, args ...any) *Error {
	return newError(http.StatusBadRequest, CodeServiceDisabled, fmt.Sprintf(format, args...))
}

func DeliveryDisabled() *Error {
	return ErrDeliveryDisabled
}

func ConfigMissing(format string, args ...any) *Error {
	return newError(http.StatusBadRequest, CodeConfigMissing, fmt.Sprintf(format, args...))
}

func OutOfRange(format string, args ...any) *Error {
	return newError(http.StatusBadRequest, CodeOutOfRange, fmt.Sprintf(format, args...))
}

// FeeMismatch сообщает клиенту расчетную и присланную стоимость доставки.
func FeeMismatch(expected, submitted string) *Error {
	return newError(http.StatusBadRequest, CodeFeeMismatch,
		fmt.Sprintf("delivery fee mismatch: expected %s, got %s", expected, submitted)).
		WithDetails(map[string]any{"expected": expected, "submitted": submitted})
}

// InsufficientStock называет товар, доступный и запрошенный остаток.
func InsufficientStock(name string, available, requested int) *Error {
	return newError(http.StatusBadRequest, CodeInsufficientStock,
		fmt.Sprintf("insufficient stock for %s: available %d, requested %d", name, available, requested))
}

func Conflict(format string, args ...any) *Error {
	return newError(http.StatusConflict, CodeConflict, fmt.Sprintf(format, args...))
}

// From приводит любую ошибку к AppError. Неизвестные ошибки становятся Internal
// с общим сообщением, чтобы детали не уходили клиенту.
func From(err error) AppError {
	if err == nil {
		return nil
	}
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal
}

// IsClientError сообщает, что ошибка вызвана запросом, а не сбоем сервиса.
func IsClientError(err error) bool {
	appErr := From(err)
	return appErr != nil && appErr.HTTPCode() < http.StatusInternalServerError
}
