package embedding

import "errors"

var (
	// ErrRepositoryRequired is returned when no vector repository is supplied.
	ErrRepositoryRequired = errors.New("vector repository is required")

	// ErrUnknownWord is returned when a word has no vector and none can be produced.
	ErrUnknownWord = errors.New("unknown word")

	// ErrZeroVector is returned when a word vector has zero magnitude.
	ErrZeroVector = errors.New("zero vector")

	// ErrDimensionMismatch is returned when two vectors differ in length.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
