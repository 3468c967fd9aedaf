package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// ErrorModel is the envelope form of an error response. It implements
// huma.StatusError so it can replace Huma's RFC 7807 default.
type ErrorModel struct {
	Success bool   `doc:"Always false for errors"     json:"success"`
	Message string `doc:"Error message"               json:"error"`
	Code    string `doc:"Machine-readable error code" json:"code,omitempty"`

	status int
}

func (e *ErrorModel) Error() string {
	return e.Message
}

func (e *ErrorModel) GetStatus() int {
	return e.status
}

// Coder is implemented by errors that carry a machine-readable code into
// the envelope.
type Coder interface {
	APICode() string
}

type codedError struct {
	err  error
	code string
}

func (e *codedError) Error() string   { return e.err.Error() }
func (e *codedError) Unwrap() error   { return e.err }
func (e *codedError) APICode() string { return e.code }

// Coded attaches a machine-readable code to err. The code surfaces in the
// envelope's code field when the error reaches the API boundary.
func Coded(err error, code string) error {
	return &codedError{err: err, code: code}
}

// UseEnvelopeErrors replaces Huma's default error model so every error
// response, including validation failures and middleware rejections,
// serializes as the envelope.
func UseEnvelopeErrors() {
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		code := statusCode(status)

		for _, err := range errs {
			var coder Coder
			if errors.As(err, &coder) {
				code = coder.APICode()

				break
			}
		}

		return &ErrorModel{Message: msg, Code: code, status: status}
	}
}

// statusCode maps an HTTP status to the envelope's default error code.
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "UNKNOWN"
	}

	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
