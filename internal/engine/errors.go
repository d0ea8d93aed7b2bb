package engine

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Contract-violation errors. These signal defects in caller usage and are
// returned as errors, never absorbed into the result's warning list;
// engineering infeasibility travels the other way, as warnings, never as
// errors.
var (
	// ErrNilInput indicates Calculate was called with a nil input.
	ErrNilInput = constError("input cannot be nil")

	// ErrInvalidInput indicates the input fails validation. Callers must
	// run validate.Validate and resolve every FieldError before calling
	// Calculate.
	ErrInvalidInput = constError("input failed validation")

	// ErrNilTable indicates engine construction without a standards table.
	ErrNilTable = constError("standards table cannot be nil")
)
