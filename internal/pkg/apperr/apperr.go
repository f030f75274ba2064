package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code int

const (
	ValidationCode      Code = 400
	UnauthenticatedCode Code = 401
	UnauthorizedCode    Code = 403
	NotFoundCode        Code = 404
	ConflictCode        Code = 409
	PersistenceCode     Code = 500
	EmailDeliveryCode   Code = 502
	// 非 HTTP 狀態碼, HTTPStatus 對應 500
	InternalErrorCode Code = 900
)

var ErrStrMap = map[Code]string{
	ValidationCode:      "ValidationError",
	UnauthenticatedCode: "AuthenticationError",
	UnauthorizedCode:    "AuthorizationError",
	NotFoundCode:        "NotFoundError",
	ConflictCode:        "ConflictError",
	PersistenceCode:     "PersistenceError",
	InternalErrorCode:   "InternalError",
	EmailDeliveryCode:   "EmailDeliveryError",
}

// Error 服務層統一錯誤, Msg 可直接顯示給使用者
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrStrMap[e.Code], e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrStrMap[e.Code], e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 比對錯誤碼, 讓 errors.Is(err, apperr.New(code, "")) 可用
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, err error, msg string) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}

// sentinel, 只用來做 errors.Is 比對
var (
	ErrValidation      = New(ValidationCode, "")
	ErrUnauthenticated = New(UnauthenticatedCode, "")
	ErrUnauthorized    = New(UnauthorizedCode, "")
	ErrNotFound        = New(NotFoundCode, "")
	ErrConflict        = New(ConflictCode, "")
	ErrPersistence     = New(PersistenceCode, "")
	ErrEmailDelivery   = New(EmailDeliveryCode, "")
)

// CodeOf 取得錯誤碼, 非 *Error 一律視為 InternalErrorCode
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return InternalErrorCode
}

// MessageOf 取得可顯示給使用者的訊息
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return "Something went wrong, please try again."
}

func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case ValidationCode:
		return http.StatusBadRequest
	case UnauthenticatedCode:
		return http.StatusUnauthorized
	case UnauthorizedCode:
		return http.StatusForbidden
	case NotFoundCode:
		return http.StatusNotFound
	case ConflictCode:
		return http.StatusConflict
	case EmailDeliveryCode:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
