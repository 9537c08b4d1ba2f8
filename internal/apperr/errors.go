package apperr

import "fmt"

// ValidationError carries per-field violations. The operation aborts with no partial write.
type ValidationError struct {
	Violations map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Violations)
}

// NewValidation builds a single-field validation error.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Violations: map[string]string{field: reason}}
}

// DuplicateBuyerError signals that an inline buyer matched an existing record.
// Field names the matched attribute (nom, telephone, cni_numero) so the caller
// can prompt to reuse the existing buyer instead.
type DuplicateBuyerError struct {
	Field      string
	ExistingID uint
}

func (e *DuplicateBuyerError) Error() string {
	return fmt.Sprintf("acquereur already exists (matched on %s, id=%d)", e.Field, e.ExistingID)
}

// MissingBuyerError signals that no buyer could be resolved from the request.
type MissingBuyerError struct{}

func (e *MissingBuyerError) Error() string { return "no acquereur resolved" }

// NotFoundError signals an absent parcel/reservation/buyer reference.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConflictError signals that an entity was no longer in the expected state when
// a transition was attempted (e.g. parcel already sold by a concurrent actor).
type ConflictError struct {
	Entity   string
	ID       uint
	Expected string
	Actual   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d is %q, expected %q", e.Entity, e.ID, e.Actual, e.Expected)
}
