package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type Code int

const (
	CodeInvalidArgument Code = iota + 1
	CodeNotFound
	CodeUnauthenticated
	CodeFailedPrecondition
	CodeUnavailable
	CodeInternal
)

var codeNames = map[Code]string{
	CodeInvalidArgument:    "invalid_argument",
	CodeNotFound:           "not_found",
	CodeUnauthenticated:    "unauthenticated",
	CodeFailedPrecondition: "failed_precondition",
	CodeUnavailable:        "unavailable",
	CodeInternal:           "internal",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "internal"
}

// FromHTTPStatus maps a response status to an error code. Statuses the
// client has no dedicated handling for collapse to internal.
func FromHTTPStatus(status int) Code {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CodeUnauthenticated
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusBadRequest:
		return CodeInvalidArgument
	case status == http.StatusConflict:
		return CodeFailedPrecondition
	case status >= http.StatusInternalServerError:
		return CodeUnavailable
	default:
		return CodeInternal
	}
}

type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	err     error
}

func New(code Code, opts ...Option) *Error {
	e := &Error{
		Code:    code,
		Message: code.String(),
	}

	for _, opt := range opts {
		opt.apply(e)
	}

	return e
}

func (e *Error) Error() string {
	s := fmt.Sprintf("code: %s, message: %s", e.Code, e.Message)
	if e.err != nil {
		s += fmt.Sprintf(", err: %s", e.err)
	}

	return s
}

func (e *Error) Unwrap() error {
	return e.err
}

func Convert(err error) *Error {
	var e *Error
	if !errors.As(err, &e) {
		return Internal(err)
	}

	return e
}

func Internal(err error) *Error {
	return New(CodeInternal, WithCause(err))
}

// HasCode reports whether err is an *Error carrying the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func IsNotFound(err error) bool        { return HasCode(err, CodeNotFound) }
func IsUnauthenticated(err error) bool { return HasCode(err, CodeUnauthenticated) }

type Option interface {
	apply(*Error)
}

type optionFunc func(*Error)

func (f optionFunc) apply(e *Error) {
	f(e)
}

func WithCause(err error) Option {
	return optionFunc(func(e *Error) {
		e.err = err
	})
}

func WithMessagef(format string, args ...any) Option {
	return optionFunc(func(e *Error) {
		e.Message = fmt.Sprintf(format, args...)
	})
}
