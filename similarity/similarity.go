package similarity

import (
	"context"

	"github.com/poiesic/topicscan/core"
	"golang.org/x/text/cases"
)

// Oracle scores how similar two word tokens are.
// Similarity never fails and always returns a value in [0,1].
// Implementations must be safe for concurrent use.
type Oracle interface {
	Similarity(ctx context.Context, lang core.Language, a, b string) float64
}

// Scorer is a fallible similarity lookup.
// Implementations must be safe for concurrent use.
type Scorer interface {
	Score(ctx context.Context, lang core.Language, a, b string) (float64, error)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(ctx context.Context, lang core.Language, a, b string) float64

// Similarity calls f.
func (f OracleFunc) Similarity(ctx context.Context, lang core.Language, a, b string) float64 {
	return f(ctx, lang, a, b)
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(ctx context.Context, lang core.Language, a, b string) (float64, error)

// Score calls f.
func (f ScorerFunc) Score(ctx context.Context, lang core.Language, a, b string) (float64, error) {
	return f(ctx, lang, a, b)
}

// ExactMatch returns 1 when a and b are equal under Unicode case folding and 0 otherwise.
func ExactMatch(a, b string) float64 {
	if a == b {
		return 1
	}
	fold := cases.Fold()
	if fold.String(a) == fold.String(b) {
		return 1
	}
	return 0
}

// Exact returns an Oracle that only performs exact case-insensitive matching.
func Exact() Oracle {
	return OracleFunc(func(_ context.Context, _ core.Language, a, b string) float64 {
		return ExactMatch(a, b)
	})
}
