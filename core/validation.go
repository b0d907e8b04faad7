package core

import (
	"fmt"
	"math"
)

// ValidateThreshold checks that t is a usable similarity threshold.
func ValidateThreshold(t float64) error {
	if math.IsNaN(t) || t < 0 || t > 1 {
		return fmt.Errorf("%w: got %v", ErrThresholdOutOfRange, t)
	}
	return nil
}

// ValidateWordVector checks that a WordVector can be stored.
func ValidateWordVector(wv *WordVector) error {
	if wv == nil {
		return fmt.Errorf("%w: word vector is nil", ErrInvalidWordVector)
	}

	if wv.Word == "" {
		return fmt.Errorf("%w: %w", ErrInvalidWordVector, ErrEmptyWord)
	}

	if wv.Lang == "" {
		return fmt.Errorf("%w: %w", ErrInvalidWordVector, ErrEmptyLanguage)
	}

	if len(wv.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidWordVector, ErrEmptyVector)
	}

	return nil
}
