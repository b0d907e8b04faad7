package matcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/topicscan/core"
	"github.com/poiesic/topicscan/similarity"
	"github.com/poiesic/topicscan/tokenize"
)

// LanguageDetector picks the language tag handed to the similarity oracle.
type LanguageDetector interface {
	Detect(text string) core.Language
}

// Matcher tests texts for the presence of topic phrases.
type Matcher struct {
	tokenizer tokenize.Tokenizer
	oracle    similarity.Oracle
	threshold float64
	language  core.Language
	detector  LanguageDetector
	logger    *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLanguage sets the language passed to the oracle when no detector is set.
// Default is core.DefaultLanguage.
func WithLanguage(lang core.Language) Option {
	return func(m *Matcher) {
		if lang == "" {
			lang = core.DefaultLanguage
		}
		m.language = lang
	}
}

// WithDetector enables per-call language detection on the text.
func WithDetector(d LanguageDetector) Option {
	return func(m *Matcher) {
		m.detector = d
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
	}
}

// New creates a Matcher. The threshold must lie within [0,1].
func New(tokenizer tokenize.Tokenizer, oracle similarity.Oracle, threshold float64, opts ...Option) (*Matcher, error) {
	if tokenizer == nil {
		return nil, ErrTokenizerRequired
	}
	if oracle == nil {
		return nil, ErrOracleRequired
	}
	if err := core.ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	m := &Matcher{
		tokenizer: tokenizer,
		oracle:    oracle,
		threshold: threshold,
		language:  core.DefaultLanguage,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Threshold returns the minimum per-pair score for a window to match.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Language returns the language used when no detector is configured.
func (m *Matcher) Language() core.Language {
	return m.language
}

// WithThreshold returns a copy of m bound to a different threshold.
// The receiver is not modified.
func (m *Matcher) WithThreshold(threshold float64) (*Matcher, error) {
	if err := core.ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	clone := *m
	clone.threshold = threshold
	return &clone, nil
}

// ContainsTopic reports whether some window of text's tokens matches topic's
// tokens pair by pair. It returns an error only when the tokenizer rejects
// one of the inputs.
func (m *Matcher) ContainsTopic(ctx context.Context, text, topic string) (bool, error) {
	textTokens, err := m.tokenizer.Tokenize(text)
	if err != nil {
		return false, fmt.Errorf("tokenize text: %w", err)
	}
	topicTokens, err := m.tokenizer.Tokenize(topic)
	if err != nil {
		return false, fmt.Errorf("tokenize topic: %w", err)
	}

	windowLen := len(topicTokens)
	if windowLen == 0 || len(textTokens) < windowLen {
		return false, nil
	}

	lang := m.language
	if m.detector != nil {
		lang = m.detector.Detect(text)
	}

	for i := 0; i <= len(textTokens)-windowLen; i++ {
		if m.windowMatches(ctx, lang, textTokens[i:i+windowLen], topicTokens) {
			m.logger.Debug("topic matched", "topic", topic, "position", i)
			return true, nil
		}
	}
	return false, nil
}

func (m *Matcher) windowMatches(ctx context.Context, lang core.Language, window, topic []string) bool {
	for j := range topic {
		if m.oracle.Similarity(ctx, lang, window[j], topic[j]) < m.threshold {
			return false
		}
	}
	return true
}
