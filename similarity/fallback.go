package similarity

import (
	"context"
	"log/slog"
	"math"

	"github.com/poiesic/topicscan/core"
)

// FallbackOracle turns a Scorer into a total Oracle.
type FallbackOracle struct {
	scorer Scorer
	logger *slog.Logger
}

var _ Oracle = (*FallbackOracle)(nil)

// FallbackOption configures a FallbackOracle.
type FallbackOption func(*FallbackOracle)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) FallbackOption {
	return func(o *FallbackOracle) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// WithFallback wraps scorer so that any failure degrades to ExactMatch.
// A nil scorer yields an oracle that always uses ExactMatch.
func WithFallback(scorer Scorer, opts ...FallbackOption) *FallbackOracle {
	o := &FallbackOracle{
		scorer: scorer,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With("component", "similarity-fallback")
	return o
}

// Similarity scores a and b with the wrapped Scorer. The scorer is called at
// most once per pair; its errors and NaN results are replaced by ExactMatch.
// Results are clamped into [0,1].
func (o *FallbackOracle) Similarity(ctx context.Context, lang core.Language, a, b string) float64 {
	if o.scorer == nil {
		return ExactMatch(a, b)
	}

	score, err := o.scorer.Score(ctx, lang, a, b)
	if err != nil {
		o.logger.Debug("similarity lookup failed, using exact match", "a", a, "b", b, "lang", lang, "err", err)
		return ExactMatch(a, b)
	}
	if math.IsNaN(score) {
		o.logger.Debug("similarity lookup returned NaN, using exact match", "a", a, "b", b, "lang", lang)
		return ExactMatch(a, b)
	}
	return Clamp(score)
}

// Clamp limits a score to [0,1].
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
