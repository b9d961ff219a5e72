package errors

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorType string

const (
	ErrInvalidArgument ErrorType = "Invalid Argument"
	ErrNotFound        ErrorType = "Resource Not Found"
	ErrUpstreamFailure ErrorType = "Upstream Failure"
	ErrInternalError   ErrorType = "Internal Error"
)

func (e ErrorType) String() string {
	return string(e)
}

type DomainError struct {
	ErrorType  ErrorType
	Entity     string
	Message    string
	WrappedErr error
}

func NewError(errType ErrorType, entity, msg string) *DomainError {
	return &DomainError{
		ErrorType: errType,
		Entity:    entity,
		Message:   msg,
	}
}

// InvalidArgument is raised for caller supplied values failing shape validation,
// before any data store access happens.
func InvalidArgument(entity, msg string) *DomainError {
	return &DomainError{
		ErrorType: ErrInvalidArgument,
		Entity:    entity,
		Message:   msg,
	}
}

func NotFound(entity, msg string) *DomainError {
	return &DomainError{
		ErrorType: ErrNotFound,
		Entity:    entity,
		Message:   msg,
	}
}

// UpstreamFailure marks an error returned by the scheduler or catalog database.
// It is never retried.
func UpstreamFailure(entity, msg string, err error) *DomainError {
	return &DomainError{
		ErrorType:  ErrUpstreamFailure,
		Entity:     entity,
		Message:    msg,
		WrappedErr: err,
	}
}

func InternalError(entity, msg string, err error) *DomainError {
	return &DomainError{
		ErrorType:  ErrInternalError,
		Entity:     entity,
		Message:    msg,
		WrappedErr: err,
	}
}

// AddErrContext keeps the type of a wrapped domain error while changing the entity and message
func AddErrContext(err error, entity, msg string) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return &DomainError{
			ErrorType:  de.ErrorType,
			Entity:     entity,
			Message:    msg,
			WrappedErr: err,
		}
	}

	return InternalError(entity, msg, err)
}

func (e *DomainError) Error() string {
	subError := ""
	if e.WrappedErr != nil {
		subError = ": " + e.WrappedErr.Error()
	}

	return fmt.Sprintf("%s for entity %s: %s%s",
		strings.ToLower(e.ErrorType.String()), e.Entity, e.Message, subError)
}

func (e *DomainError) Unwrap() error {
	return e.WrappedErr
}

// IsErrorType reports whether the outermost domain error in the chain has the given type
func IsErrorType(err error, errType ErrorType) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.ErrorType == errType
	}
	return false
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func New(msg string) error {
	return errors.New(msg)
}
