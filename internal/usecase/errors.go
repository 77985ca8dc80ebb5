package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthenticated = errors.New("authentication failed")
	ErrAdminRequired   = errors.New("admin authentication required")
)

// ValidationError - входные данные отклонены до любых побочных эффектов
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newMissingFieldError(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: field + " parameter is missing",
	}
}

// PersistenceError - ошибка хранилища. Чтение - 500, запись - 400.
type PersistenceError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func newReadError(op, message string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Status: http.StatusInternalServerError, Message: message, Err: err}
}

func newWriteError(op, message string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Status: http.StatusBadRequest, Message: message, Err: err}
}

// Describe возвращает статус и сообщение для ответа клиенту
func Describe(err error) (int, string) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Message
	}

	var persistenceErr *PersistenceError
	if errors.As(err, &persistenceErr) {
		return persistenceErr.Status, persistenceErr.Message
	}

	return http.StatusInternalServerError, "Some error occured"
}
