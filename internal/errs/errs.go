// Package errs defines the failure taxonomy shared by the admin console,
// the public site and the JSON API.
package errs

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/devfolio/devfolio/internal/store"
)

// Kind classifies a failure.
type Kind int

const (
	// FetchFailure: the store was unreachable or a query failed.
	FetchFailure Kind = iota + 1
	// WriteFailure: a create, update or delete was rejected.
	WriteFailure
	// ValidationFailure: a required field was empty or malformed; no write was attempted.
	ValidationFailure
)

func (k Kind) String() string {
	switch k {
	case FetchFailure:
		return "fetch"
	case WriteFailure:
		return "write"
	case ValidationFailure:
		return "validation"
	}
	return "unknown"
}

// ErrStoreUnavailable is reported inside a FetchFailure when the store cannot be reached.
var ErrStoreUnavailable = store.ErrUnavailable

// Failure is the error type returned at every operation boundary.
type Failure struct {
	Kind  Kind
	Op    string
	Field string
	Msg   string
	Err   error
}

func (f *Failure) Error() string {
	switch {
	case f.Kind == ValidationFailure && f.Field != "":
		return fmt.Sprintf("%s: %s", f.Field, f.Msg)
	case f.Kind == ValidationFailure:
		return f.Msg
	case f.Err != nil:
		return fmt.Sprintf("%s %s: %v", f.Kind, f.Op, f.Err)
	}
	return fmt.Sprintf("%s %s failed", f.Kind, f.Op)
}

func (f *Failure) Unwrap() error { return f.Err }

// Fetch wraps err as a FetchFailure for op.
func Fetch(op string, err error) error {
	return &Failure{Kind: FetchFailure, Op: op, Err: err}
}

// Write wraps err as a WriteFailure for op.
func Write(op string, err error) error {
	return &Failure{Kind: WriteFailure, Op: op, Err: err}
}

// Validation reports an invalid field value.
func Validation(field, msg string) error {
	return &Failure{Kind: ValidationFailure, Op: "validate", Field: field, Msg: msg}
}

// KindOf returns the failure kind of err, or 0 when err is not a Failure.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return 0
}

func IsFetch(err error) bool      { return KindOf(err) == FetchFailure }
func IsWrite(err error) bool      { return KindOf(err) == WriteFailure }
func IsValidation(err error) bool { return KindOf(err) == ValidationFailure }

// Field returns the offending field of a validation failure.
func Field(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Field
	}
	return ""
}

// StatusCode maps err to the HTTP status the JSON API answers with.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case IsValidation(err):
		return http.StatusBadRequest
	case IsFetch(err):
		return http.StatusServiceUnavailable
	case IsWrite(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
