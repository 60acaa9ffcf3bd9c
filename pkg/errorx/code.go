package errorx

import "net/http"

type Code int

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
	NotImplemented   Code = 100009
	TooManyRequests  Code = 100010

	// Realtime codes
	InvalidDirective Code = 400001
)

// HTTPStatus returns the status code written to the client when a request fails with this code.
func (c Code) HTTPStatus() int {
	switch c {
	case BadRequest, InvalidDirective:
		return http.StatusBadRequest
	case Unauthenticated, PermissionDenied:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case AlreadyExists:
		return http.StatusConflict
	case TooManyRequests:
		return http.StatusTooManyRequests
	case Unavailable:
		return http.StatusServiceUnavailable
	case NotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
