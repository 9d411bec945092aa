package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/ledgerly/internal/storage"
)

// ValidationError reports invalid input. Nothing was written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// RecomputeError reports a balance rebuild that was rolled back.
// The previous balances for Scopes are still in place.
type RecomputeError struct {
	Scopes []storage.Scope
	Err    error
}

func (e *RecomputeError) Error() string {
	return fmt.Sprintf("ledger update failed, state unchanged (%s): %v", strings.Join(scopeNames(e.Scopes), ", "), e.Err)
}

func (e *RecomputeError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsRecompute reports whether err is a *RecomputeError.
func IsRecompute(err error) bool {
	var r *RecomputeError
	return errors.As(err, &r)
}
