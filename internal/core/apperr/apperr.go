// Package apperr defines the tagged error union returned by every service.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/asistoya/shared-services/internal/logger"
)

// Kind discriminates the error variants.
type Kind int

const (
	KindApp Kind = iota
	KindDatabase
	KindValidation
	KindNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindDatabase:
		return "DatabaseError"
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	case KindUnauthorized:
		return "UnauthorizedError"
	default:
		return "AppError"
	}
}

// Stable error codes.
const (
	CodeApp          = "APP_ERROR"
	CodeDatabase     = "DATABASE_ERROR"
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeUnknown      = "UNKNOWN"
)

// Error is the single error type produced by the services. Field is set for
// KindValidation and Resource for KindNotFound; Err holds the wrapped cause.
type Error struct {
	Kind     Kind
	Code     string
	Status   int
	Message  string
	Field    string
	Resource string
	Err      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a generic application error. Empty code and zero status fall
// back to APP_ERROR and 500.
func New(message, code string, status int) *Error {
	if code == "" {
		code = CodeApp
	}
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &Error{Kind: KindApp, Code: code, Status: status, Message: message}
}

// Database returns a remote store failure carrying the store's code.
func Database(message, code string) *Error {
	if code == "" {
		code = CodeDatabase
	}
	return &Error{Kind: KindDatabase, Code: code, Status: http.StatusInternalServerError, Message: message}
}

// Validation returns a caller input error attributed to field.
func Validation(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeValidation,
		Status:  http.StatusBadRequest,
		Message: message,
		Field:   field,
	}
}

// NotFound returns a missing-resource error. The message defaults to
// "<resource> not found".
func NotFound(resource, message string) *Error {
	if message == "" {
		message = resource + " not found"
	}
	return &Error{
		Kind:     KindNotFound,
		Code:     CodeNotFound,
		Status:   http.StatusNotFound,
		Message:  message,
		Resource: resource,
	}
}

// Unauthorized returns an authentication failure.
func Unauthorized(message string) *Error {
	if message == "" {
		message = "Unauthorized"
	}
	return &Error{Kind: KindUnauthorized, Code: CodeUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

// As extracts the *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err's chain holds an *Error of kind k.
func IsKind(err error, k Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == k
}

// CodeOf returns the code of err, or UNKNOWN when err is not a tagged error.
func CodeOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) && storeErr.Code != "" {
		return storeErr.Code
	}
	return CodeUnknown
}

// StoreError is the error contract of the remote store. Store adapters
// translate their driver errors into it at the connection boundary.
type StoreError struct {
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *StoreError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Details)
	}
	return e.Message
}

// Classify converts a store error into a KindDatabase error preserving its
// code. Any other error, including nil, is returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		dbErr := Database(storeErr.Message, storeErr.Code)
		dbErr.Err = err
		return dbErr
	}
	return err
}

// Log records err at error level under the given context tag. It accepts nil
// and never panics.
func Log(context string, err error, extra ...any) {
	message := "<nil>"
	if err != nil {
		message = err.Error()
	}
	args := make([]any, 0, len(extra)+4)
	args = append(args, "code", CodeOf(err))
	if appErr, ok := As(err); ok {
		args = append(args, "kind", appErr.Kind.String())
	}
	args = append(args, extra...)
	logger.Error(context, message, args...)
}
