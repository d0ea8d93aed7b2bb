package standards

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for table lookups and dataset loading.
// All are comparable with errors.Is().
var (
	// ErrUnknownCoefficient indicates a (category, key) pair with no entry.
	ErrUnknownCoefficient = constError("unknown coefficient")

	// ErrUnknownSeries indicates a breakpoint series that does not exist
	// for the requested category and standard.
	ErrUnknownSeries = constError("unknown breakpoint series")

	// ErrUnknownLadder indicates a size ladder that does not exist for the
	// requested name and standard.
	ErrUnknownLadder = constError("unknown size ladder")

	// ErrUnknownStandard indicates a standard name outside the closed set.
	ErrUnknownStandard = constError("unknown standard")

	// ErrIncompatibleSchema indicates a dataset whose schema_version falls
	// outside the supported range.
	ErrIncompatibleSchema = constError("incompatible dataset schema version")

	// ErrInvalidDataset indicates a dataset that fails structural
	// validation (unsorted series, non-ascending ladder, factor out of range).
	ErrInvalidDataset = constError("invalid standards dataset")
)
