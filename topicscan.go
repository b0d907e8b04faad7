// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package topicscan wires the topic matching stack together from a config.Config.
//
// A Service owns the word-vector store, the optional embedding provider, the
// matcher and the analyzer worker pool. Close releases all of them.
package topicscan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/topicscan/ai"
	"github.com/poiesic/topicscan/ai/openai"
	"github.com/poiesic/topicscan/analyze"
	"github.com/poiesic/topicscan/config"
	"github.com/poiesic/topicscan/core"
	"github.com/poiesic/topicscan/langdetect"
	"github.com/poiesic/topicscan/matcher"
	"github.com/poiesic/topicscan/similarity"
	"github.com/poiesic/topicscan/similarity/embedding"
	"github.com/poiesic/topicscan/similarity/lexical"
	"github.com/poiesic/topicscan/storage"
	"github.com/poiesic/topicscan/storage/badger"
	"github.com/poiesic/topicscan/tokenize"
)

// ErrNoStorage is returned by operations that need the word-vector store
// when the configured backend does not open one.
var ErrNoStorage = errors.New("word-vector storage is not open")

type Service struct {
	cfg        *config.Config
	backend    *badger.Backend
	repo       storage.VectorRepository
	provider   ai.AIProvider
	embedder   ai.Embedder
	normalizer *embedding.Normalizer
	matcher    *matcher.Matcher
	analyzer   *analyze.Analyzer
	logger     *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	logger   *slog.Logger
	embedder ai.Embedder
	inMemory bool
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// WithEmbedder uses embedder for words missing from the model instead of
// the service named in the config.
func WithEmbedder(embedder ai.Embedder) ServiceOption {
	return func(o *serviceOptions) {
		o.embedder = embedder
	}
}

// WithInMemoryStorage keeps word vectors in memory instead of at storage.path.
func WithInMemoryStorage() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// NewService builds a Service from cfg. A nil cfg means config.Default().
func NewService(cfg *config.Config, opts ...ServiceOption) (*Service, error) {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}

	options := &serviceOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if options.inMemory && !cfg.Storage.InMemory {
		c := *cfg
		c.Storage.InMemory = true
		cfg = &c
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		cfg:      cfg,
		embedder: options.embedder,
		normalizer: embedding.NewNormalizer(
			embedding.WithStemming(cfg.Similarity.Stemming),
			embedding.WithPorter2English(cfg.Similarity.Porter2English),
		),
		logger: options.logger,
	}

	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Service) init() error {
	cfg := s.cfg

	if cfg.Similarity.Backend == config.BackendEmbedding {
		backend, err := badger.OpenBackend(cfg.Storage.Path, cfg.Storage.InMemory)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		s.backend = backend

		repo, err := badger.NewVectorRepository(backend)
		if err != nil {
			return fmt.Errorf("open vector repository: %w", err)
		}
		s.repo = repo
	}

	if s.embedder == nil && cfg.Embedding.Enabled() {
		provider, err := openai.NewProvider(ai.NewConfig(
			ai.WithEmbeddingHost(cfg.Embedding.Host),
			ai.WithEmbeddingModel(cfg.Embedding.Model),
			ai.WithAPIToken(cfg.Embedding.Token),
		))
		if err != nil {
			return fmt.Errorf("create embedding provider: %w", err)
		}
		s.provider = provider
		s.embedder = provider.Embedder()
	}

	scorer, err := s.buildScorer()
	if err != nil {
		return err
	}
	oracle := similarity.WithFallback(scorer, similarity.WithLogger(s.logger))

	tokenizer := tokenize.NewSplitter(
		tokenize.WithStripChars(cfg.Tokenizer.StripChars),
		tokenize.WithCaseFolding(cfg.Tokenizer.FoldCase),
	)

	matcherOpts := []matcher.Option{
		matcher.WithLanguage(cfg.Language()),
		matcher.WithLogger(s.logger),
	}
	if cfg.Matcher.DetectLanguage {
		matcherOpts = append(matcherOpts, matcher.WithDetector(langdetect.New(
			langdetect.WithFallback(cfg.Language()),
			langdetect.WithLogger(s.logger),
		)))
	}
	m, err := matcher.New(tokenizer, oracle, cfg.Matcher.Threshold, matcherOpts...)
	if err != nil {
		return err
	}
	s.matcher = m

	analyzerOpts := []analyze.Option{analyze.WithLogger(s.logger)}
	if cfg.Server.PoolSize > 0 {
		analyzerOpts = append(analyzerOpts, analyze.WithPoolSize(cfg.Server.PoolSize))
	}
	a, err := analyze.NewAnalyzer(m, analyzerOpts...)
	if err != nil {
		return err
	}
	s.analyzer = a

	s.logger.Info("topicscan ready",
		"backend", cfg.Similarity.Backend,
		"threshold", cfg.Matcher.Threshold,
		"language", cfg.Language(),
		"detect_language", cfg.Matcher.DetectLanguage,
		"embedder", s.embedder != nil)
	return nil
}

// buildScorer returns the scorer for the configured backend, or nil for exact matching.
func (s *Service) buildScorer() (similarity.Scorer, error) {
	switch s.cfg.Similarity.Backend {
	case config.BackendEmbedding:
		opts := []embedding.Option{
			embedding.WithNormalizer(s.normalizer),
			embedding.WithLogger(s.logger),
		}
		if s.embedder != nil {
			opts = append(opts, embedding.WithEmbedder(s.embedder))
		}
		return embedding.NewScorer(s.repo, opts...)
	case config.BackendLexical:
		algo, err := lexical.ParseAlgorithm(s.cfg.Similarity.LexicalAlgorithm)
		if err != nil {
			return nil, err
		}
		return lexical.NewScorer(lexical.WithAlgorithm(algo)), nil
	default:
		return nil, nil
	}
}

// Config returns the configuration the service was built from.
func (s *Service) Config() *config.Config {
	return s.cfg
}

func (s *Service) Matcher() *matcher.Matcher {
	return s.matcher
}

func (s *Service) Analyzer() *analyze.Analyzer {
	return s.analyzer
}

// VectorRepository returns the word-vector store, or nil when the backend does not use one.
func (s *Service) VectorRepository() storage.VectorRepository {
	return s.repo
}

// Embedder returns the embedding service, or nil when none is configured.
func (s *Service) Embedder() ai.Embedder {
	return s.embedder
}

// Normalizer returns the word normalizer shared by the scorer and the loaders.
func (s *Service) Normalizer() *embedding.Normalizer {
	return s.normalizer
}

// ContainsTopic reports whether text contains topic.
func (s *Service) ContainsTopic(ctx context.Context, text, topic string) (bool, error) {
	return s.matcher.ContainsTopic(ctx, text, topic)
}

// Analyze returns the topics contained in text, in input order.
func (s *Service) Analyze(ctx context.Context, text string, topics []string) ([]string, error) {
	return s.analyzer.Analyze(ctx, text, topics)
}

// Count returns the number of stored word vectors for lang.
// An empty lang means the configured default language.
func (s *Service) Count(ctx context.Context, lang core.Language) (int, error) {
	if s.repo == nil {
		return 0, ErrNoStorage
	}
	if lang == "" {
		lang = s.cfg.Language()
	}
	return s.repo.Count(ctx, lang)
}

func (s *Service) Close() error {
	if s.analyzer != nil {
		s.analyzer.Release()
	}

	if s.provider != nil {
		if err := s.provider.Close(); err != nil {
			s.logger.Error("error closing AI provider", "err", err)
		}
	}

	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			s.logger.Error("error closing vector repository", "err", err)
			return err
		}
	}

	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.logger.Error("error closing backend storage", "err", err)
			return err
		}
	}
	return nil
}
