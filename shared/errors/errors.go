package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusCoder is implemented by every error the HTTP layer can translate
// into something other than 500.
type StatusCoder interface {
	StatusCode() int
}

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// ValidationError is bad, user-correctable input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// NotFoundError is a stale or unknown id, e.g. a record already deleted by another client.
type NotFoundError struct {
	Entity string
	Id     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Id)
}

func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// ForbiddenError means the actor failed the authorization policy.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Message)
}

func (e *ForbiddenError) StatusCode() int { return http.StatusForbidden }

// CredentialsError is one of the failure branches of guest photo deletion.
type CredentialsError struct {
	Code   string
	Status int
}

func (e *CredentialsError) Error() string {
	return e.Code
}

func (e *CredentialsError) StatusCode() int { return e.Status }

var (
	ErrNeedCredentials   = &CredentialsError{Code: "need_credentials", Status: http.StatusUnauthorized}
	ErrBadCredentials    = &CredentialsError{Code: "bad_credentials", Status: http.StatusUnauthorized}
	ErrNoGuestProtection = &CredentialsError{Code: "no_guest_protection", Status: http.StatusForbidden}
	ErrLoginRequired     = &ForbiddenError{Message: "login required"}
)

func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, Id: id}
}

func Forbidden(format string, args ...any) error {
	return &ForbiddenError{Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err or anything it wraps is of type T.
func Is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

// StatusCode extracts the HTTP status carried by err, 500 when there is none.
func StatusCode(err error) int {
	var ews *ErrorWithStatusCode
	if errors.As(err, &ews) {
		return ews.StatusCode
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}
