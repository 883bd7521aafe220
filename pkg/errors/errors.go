package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Виды ошибок, которые попадают в поле "error" JSON-ответа.
const (
	KindValidation = "validation_error"
	KindNotFound   = "not_found"
	KindConflict   = "conflict"
	KindStore      = "store_error"
	KindInternal   = "internal_server_error"
)

var (
	ErrNotFound   = errors.New("запись не найдена")
	ErrBadRequest = errors.New("неверный запрос")
)

// HttpError несёт HTTP-код, вид ошибки и сообщение для клиента.
// Err и Context — только для серверных логов, клиенту не отдаются.
type HttpError struct {
	Code    int
	Kind    string
	Message string
	Err     error
	Details map[string]string
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{
		Code:    code,
		Kind:    kindForCode(code),
		Message: message,
		Err:     err,
		Context: context,
	}
}

// NewValidationError собирает ошибки полей в один ответ 400.
func NewValidationError(details map[string]string) *HttpError {
	return &HttpError{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: "Invalid payload",
		Details: details,
	}
}

func NewNotFoundError(message string) *HttpError {
	return &HttpError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: message,
		Err:     ErrNotFound,
	}
}

func NewConflictError(message string) *HttpError {
	return &HttpError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewStoreError прячет детали отказа хранилища от клиента,
// исходная ошибка остаётся в Err для логов.
func NewStoreError(err error) *HttpError {
	return &HttpError{
		Code:    http.StatusInternalServerError,
		Kind:    KindStore,
		Message: "Unable to process the request at this time",
		Err:     err,
	}
}

func kindForCode(code int) string {
	switch code {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	default:
		return KindInternal
	}
}
