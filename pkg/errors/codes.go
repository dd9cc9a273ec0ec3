package errors

// 공통 에러 코드 정의
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrConflict        = "CONFLICT"
	ErrTimeout         = "TIMEOUT"
	ErrNotImplemented  = "NOT_IMPLEMENTED"
	ErrTooManyRequests = "RESOURCE_EXHAUSTED"

	// 외부 API가 실패 응답을 돌려준 경우
	ErrUpstream = "UPSTREAM"
	// 외부 API에 도달하지 못한 경우 (네트워크, 서킷 브레이커)
	ErrUnavailable = "UNAVAILABLE"
)
