package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/poiesic/topicscan/ai"
	"github.com/poiesic/topicscan/core"
	"github.com/poiesic/topicscan/similarity"
	"github.com/poiesic/topicscan/storage"
)

// Scorer implements similarity.Scorer over a word-vector repository.
type Scorer struct {
	repo       storage.VectorRepository
	embedder   ai.Embedder
	normalizer *Normalizer
	logger     *slog.Logger
}

var _ similarity.Scorer = (*Scorer)(nil)

// Option configures a Scorer.
type Option func(*Scorer)

// WithEmbedder enables on-demand embedding of words missing from the repository.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(s *Scorer) {
		s.embedder = embedder
	}
}

// WithNormalizer sets the word normalizer. Default is NewNormalizer().
func WithNormalizer(normalizer *Normalizer) Option {
	return func(s *Scorer) {
		if normalizer != nil {
			s.normalizer = normalizer
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewScorer creates a Scorer backed by repo.
func NewScorer(repo storage.VectorRepository, opts ...Option) (*Scorer, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	s := &Scorer{
		repo:       repo,
		normalizer: NewNormalizer(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "embedding-scorer")
	return s, nil
}

// Normalizer returns the normalizer used for vector keys.
func (s *Scorer) Normalizer() *Normalizer {
	return s.normalizer
}

// Score returns the cosine similarity of a and b clamped to [0,1].
// Words with the same normalized form score 1 without a lookup.
func (s *Scorer) Score(ctx context.Context, lang core.Language, a, b string) (float64, error) {
	na := s.normalizer.Normalize(lang, a)
	nb := s.normalizer.Normalize(lang, b)
	if na == "" || nb == "" {
		return 0, core.ErrEmptyWord
	}
	if na == nb {
		return 1, nil
	}

	vectors, err := s.repo.GetVectors(ctx, lang, na, nb)
	if err != nil {
		return 0, fmt.Errorf("load vectors: %w", err)
	}

	missing := make(map[string]string)
	if _, ok := vectors[na]; !ok {
		missing[na] = a
	}
	if _, ok := vectors[nb]; !ok {
		missing[nb] = b
	}
	if len(missing) > 0 {
		embedded, err := s.embedMissing(ctx, lang, missing)
		if err != nil {
			return 0, err
		}
		for key, wv := range embedded {
			vectors[key] = wv
		}
	}

	score, err := Cosine(vectors[na].Vector, vectors[nb].Vector)
	if err != nil {
		return 0, fmt.Errorf("compare %q and %q: %w", na, nb, err)
	}
	return similarity.Clamp(score), nil
}

// embedMissing embeds the surface forms of missing keys in one call and caches the results.
func (s *Scorer) embedMissing(ctx context.Context, lang core.Language, missing map[string]string) (map[string]*core.WordVector, error) {
	keys := slices.Sorted(maps.Keys(missing))
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWord, keys[0])
	}

	texts := make([]string, len(keys))
	for i, key := range keys {
		texts[i] = fold(missing[key])
	}

	s.logger.Debug("embedding words missing from model", "lang", lang, "count", len(texts))
	raw, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embed %v: %w", ErrUnknownWord, keys, err)
	}
	if len(raw) != len(texts) {
		return nil, fmt.Errorf("%w: embedder returned %d vectors for %d words", ErrUnknownWord, len(raw), len(texts))
	}

	result := make(map[string]*core.WordVector, len(keys))
	batch := make([]*core.WordVector, 0, len(keys))
	for i, key := range keys {
		wv := core.NewWordVector(lang, key, NormalizeVector(raw[i]))
		result[key] = wv
		batch = append(batch, wv)
	}

	if err := s.repo.PutVectors(ctx, batch...); err != nil {
		if errors.Is(err, core.ErrInvalidWordVector) {
			return nil, fmt.Errorf("%w: %w", ErrUnknownWord, err)
		}
		// The vectors are still usable for this comparison.
		s.logger.Warn("failed to cache embedded words", "lang", lang, "err", err)
	}
	return result, nil
}
