// Package errors provides structured error types for jarlens.
//
// Every failure that crosses a component boundary carries a [Code] so that
// callers can decide how far it propagates:
//
//   - MANIFEST_PARSE: a manifest could not be parsed (fatal for that manifest)
//   - REMOTE_FETCH: the remote repository failed (subtree abandoned)
//   - NOT_FOUND_*: drives the acquisition cascade
//   - USER_SKIPPED, DOWNLOAD_DECLINED, OFFLINE_BLOCKED: per-dependency failures
//   - ENRICHMENT_FAILURE: missing sidecars (swallowed, logged only)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeOfflineBlocked, "%s: offline and not in local repository", coord)
//	if errors.Is(err, errors.ErrCodeOfflineBlocked) {
//	    // report and continue with the next dependency
//	}
//
//	err := errors.Wrap(errors.ErrCodeRemoteFetch, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidCoordinate Code = "INVALID_COORDINATE"
	ErrCodeManifestParse     Code = "MANIFEST_PARSE"

	// Resolution errors
	ErrCodeRemoteFetch      Code = "REMOTE_FETCH"
	ErrCodeNotFoundLocally  Code = "NOT_FOUND_LOCALLY"
	ErrCodeNotFoundRemotely Code = "NOT_FOUND_REMOTELY"

	// Acquisition outcomes decided by the operator or by policy
	ErrCodeUserSkipped      Code = "USER_SKIPPED"
	ErrCodeDownloadDeclined Code = "DOWNLOAD_DECLINED"
	ErrCodeOfflineBlocked   Code = "OFFLINE_BLOCKED"

	// Extraction errors
	ErrCodeEnrichment     Code = "ENRICHMENT_FAILURE"
	ErrCodeInvalidArchive Code = "INVALID_ARCHIVE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message (and the cause's user message, if
// any) without code prefixes. For other errors, returns the error string.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// Recoverable reports whether err only affects a single dependency, so batch
// processing may continue with the next one.
func Recoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeUserSkipped, ErrCodeDownloadDeclined, ErrCodeOfflineBlocked,
		ErrCodeRemoteFetch, ErrCodeNotFoundRemotely, ErrCodeNotFoundLocally,
		ErrCodeInvalidCoordinate, ErrCodeInvalidArchive, ErrCodeEnrichment:
		return true
	}
	return false
}
