package driver

import "errors"

var (
	ErrTerminalMismatch   = errors.New("terminal mismatch")
	ErrContextLength      = errors.New("context length mismatch")
	ErrProductionNotFound = errors.New("production not found")
	ErrOptionalTerm       = errors.New("optional term")
	ErrMaxLevel           = errors.New("max level reached")
	ErrEmptyGrammar       = errors.New("grammar is empty")
)

// DerivationError is the failure of one derivation branch. Cause is one of the Err* values above.
type DerivationError struct {
	Cause   error
	Message string
}

func newDerivationError(cause error, message string) *DerivationError {
	return &DerivationError{
		Cause:   cause,
		Message: message,
	}
}

func (e *DerivationError) Error() string {
	return e.Message
}

func (e *DerivationError) Unwrap() error {
	return e.Cause
}
