package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// ValidationError reports malformed input (bad ids, negative quantities).
// Rejected before any state is touched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PreconditionError reports a state precondition that does not hold
// (insufficient treasury, roster cap reached, lab busy, bust freeze).
type PreconditionError struct {
	*DomainError
}

func NewPreconditionError(format string, args ...interface{}) *PreconditionError {
	return &PreconditionError{DomainError: &DomainError{Message: fmt.Sprintf(format, args...)}}
}

// NotFoundError reports a missing entity
type NotFoundError struct {
	*DomainError
	Entity string
}

func NewNotFoundError(entity string, id interface{}) *NotFoundError {
	return &NotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s not found: %v", entity, id)},
		Entity:      entity,
	}
}

// ContentionError reports a lost race on a shared resource (NPC no longer
// idle, territory no longer unclaimed). Surfaced at command time only;
// resolution never contends because resources were reserved at creation.
type ContentionError struct {
	*DomainError
}

func NewContentionError(format string, args ...interface{}) *ContentionError {
	return &ContentionError{DomainError: &DomainError{Message: fmt.Sprintf(format, args...)}}
}

// InsufficientFundsError is a PreconditionError carrying the figures
type InsufficientFundsError struct {
	*PreconditionError
	Required  int64
	Available int64
}

func NewInsufficientFundsError(required, available int64) *InsufficientFundsError {
	return &InsufficientFundsError{
		PreconditionError: NewPreconditionError("insufficient funds: need $%d, have $%d", required, available),
		Required:          required,
		Available:         available,
	}
}

// BustFrozenError is returned for every mutating cartel action while a
// bust cooldown is in effect
type BustFrozenError struct {
	*PreconditionError
}

func NewBustFrozenError(until string) *BustFrozenError {
	return &BustFrozenError{
		PreconditionError: NewPreconditionError("cartel operations frozen until %s (busted)", until),
	}
}
