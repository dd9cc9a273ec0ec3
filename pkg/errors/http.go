package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ToHTTPStatus는 에러 코드를 HTTP 상태 코드로 변환합니다
func ToHTTPStatus(code string) int {
	httpStatus, _ := GetCodeMapping(code)
	return httpStatus
}

// ErrorBody는 HTTP 에러 응답 본문입니다
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToHTTPError는 에러를 Echo HTTP 에러로 변환합니다.
// AppError의 경우 내부 원인은 숨기고 사용자용 메시지만 노출합니다
func ToHTTPError(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		he := echo.NewHTTPError(ToHTTPStatus(appErr.Code()), ErrorBody{
			Error: appErr.Message(),
			Code:  appErr.Code(),
		})
		return he.SetInternal(err)
	}

	// Echo 에러인 경우 그대로 반환
	var echoErr *echo.HTTPError
	if As(err, &echoErr) {
		return echoErr
	}

	return echo.NewHTTPError(http.StatusInternalServerError, ErrorBody{
		Error: http.StatusText(http.StatusInternalServerError),
		Code:  ErrInternal,
	}).SetInternal(err)
}

// FromHTTPStatus는 외부 API의 HTTP 상태 코드를 내부 에러 코드로 변환합니다
func FromHTTPStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrInvalidArgument
	case http.StatusUnauthorized:
		return ErrUnauthenticated
	case http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusConflict:
		return ErrConflict
	case http.StatusTooManyRequests:
		return ErrTooManyRequests
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrTimeout
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return ErrUnavailable
	default:
		if status >= 500 {
			return ErrUpstream
		}
		return ErrInternal
	}
}
