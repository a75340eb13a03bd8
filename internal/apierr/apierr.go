// Package apierr maps the abstract error taxonomy from spec.md §7 onto
// HTTP status codes, so handlers can return a typed error and let one
// place decide the response shape (generalizing the teacher's repeated
// c.JSON(4xx, ExecutionResponse{...}) calls in routes/route.go into a
// single mapping).
package apierr

import "net/http"

type Kind int

const (
	Validation Kind = iota
	RateLimited
	NotFound
	Internal
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validationf(msg string) *Error { return &Error{Kind: Validation, Message: msg} }
func RateLimit() *Error             { return &Error{Kind: RateLimited, Message: "rate limit exceeded"} }
func NotFoundf(msg string) *Error   { return &Error{Kind: NotFound, Message: msg} }
func Internalf(msg string) *Error  { return &Error{Kind: Internal, Message: msg} }

// StatusCode maps a Kind to the HTTP status spec.md §6 requires.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case Validation:
		return http.StatusBadRequest
	case RateLimited:
		return http.StatusTooManyRequests
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
