package grammar

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return e.message
}

var (
	ErrLhsNotFound = newSyntaxError("lhs not found")
	ErrWrongLhs    = newSyntaxError("lhs must be enclosed in '<' and '>'")
	ErrRhsNotFound = newSyntaxError("rhs not found; a production needs '::='")
)
