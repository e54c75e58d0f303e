package internal

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures so handlers can pick a status without string matching.
type ErrorKind string

const (
	KindConfig    ErrorKind = "config"
	KindExternal  ErrorKind = "external"
	KindBusiness  ErrorKind = "business"
	KindTransport ErrorKind = "transport"
)

var (
	ErrUnknownContext = errors.New("unknown credential context")
	ErrNoOpenRecord   = errors.New("no open sleep record")
	ErrWakeInProgress = errors.New("wake already in progress")
)

type AppError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func ConfigError(msg string, err error) *AppError {
	return &AppError{Kind: KindConfig, Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// ExternalError carries the external API body verbatim. The status is always 400,
// whatever the external API answered.
func ExternalError(body string) *AppError {
	return &AppError{Kind: KindExternal, Status: http.StatusBadRequest, Message: body}
}

func BusinessError(status int, msg string, err error) *AppError {
	return &AppError{Kind: KindBusiness, Status: status, Message: msg, Err: err}
}

func TransportError(msg string, err error) *AppError {
	return &AppError{Kind: KindTransport, Status: http.StatusBadGateway, Message: msg, Err: err}
}

// AsAppError unwraps err into an AppError, wrapping unknown errors as a 500.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Status: http.StatusInternalServerError, Message: "unexpected server error", Err: err}
}
