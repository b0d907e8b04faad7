package matcher

import "errors"

var (
	// ErrTokenizerRequired is returned when a tokenizer is not provided.
	ErrTokenizerRequired = errors.New("tokenizer required")

	// ErrOracleRequired is returned when a similarity oracle is not provided.
	ErrOracleRequired = errors.New("similarity oracle required")
)
