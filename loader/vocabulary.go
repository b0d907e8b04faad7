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


package loader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/topicscan/ai"
	"github.com/poiesic/topicscan/core"
	"github.com/poiesic/topicscan/similarity/embedding"
	"github.com/poiesic/topicscan/storage"
)

// vocabWord pairs a repository key with the surface form sent to the embedder.
type vocabWord struct {
	key     string
	surface string
}

// VocabularyEmbedder builds word vectors for a word list through an ai.Embedder.
type VocabularyEmbedder struct {
	repo       storage.VectorRepository
	embedder   ai.Embedder
	normalizer *embedding.Normalizer
	config     *Config
	progress   io.Writer
	logger     *slog.Logger
}

// NewVocabularyEmbedder creates a VocabularyEmbedder.
// progress: where to write progress output (typically os.Stderr)
func NewVocabularyEmbedder(repo storage.VectorRepository, embedder ai.Embedder, normalizer *embedding.Normalizer, config *Config, progress io.Writer) *VocabularyEmbedder {
	if config == nil {
		config = DefaultConfig()
	}
	if normalizer == nil {
		normalizer = embedding.NewNormalizer()
	}
	if progress == nil {
		progress = io.Discard
	}
	return &VocabularyEmbedder{
		repo:       repo,
		embedder:   embedder,
		normalizer: normalizer,
		config:     config,
		progress:   progress,
		logger:     slog.Default().With("component", "vocabulary-embedder"),
	}
}

// Run reads whitespace-separated words from r, embeds those not yet stored
// and writes their unit vectors under lang.
func (v *VocabularyEmbedder) Run(ctx context.Context, r io.Reader, lang core.Language) (Stats, error) {
	var stats Stats
	if lang == "" {
		return stats, core.ErrEmptyLanguage
	}

	tracker := NewProgressTracker(v.progress, 0, v.config.ReportInterval)
	tracker.Start()

	runner, err := newBatchRunner(ctx, v.config.BatchSize, v.config.Workers,
		func(ctx context.Context, batch []vocabWord) error {
			return v.processBatch(ctx, lang, batch, tracker)
		})
	if err != nil {
		return stats, err
	}

	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	var readErr error
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		stats.Read++

		key := v.normalizer.Normalize(lang, word)
		if key == "" {
			stats.Skipped++
			continue
		}
		if _, dup := seen[key]; dup {
			stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		present, err := v.repo.HasVector(ctx, lang, key)
		if err != nil {
			readErr = fmt.Errorf("check %q: %w", key, err)
			break
		}
		if present {
			stats.Skipped++
			continue
		}

		if readErr = runner.add(vocabWord{key: key, surface: word}); readErr != nil {
			break
		}
	}
	if readErr == nil {
		if err := scanner.Err(); err != nil {
			readErr = fmt.Errorf("read vocabulary: %w", err)
		}
	}

	runErr := runner.finish()
	tracker.Finish()
	stats.Stored = tracker.Current()

	if readErr != nil {
		return stats, readErr
	}
	if runErr != nil {
		return stats, runErr
	}

	v.logger.Info("vocabulary embedded", "lang", lang, "read", stats.Read, "stored", stats.Stored,
		"duplicates", stats.Duplicates, "skipped", stats.Skipped, "elapsed", tracker.Elapsed().Round(time.Millisecond))
	return stats, nil
}

// processBatch embeds one batch with retry, normalizes the vectors and stores them.
func (v *VocabularyEmbedder) processBatch(ctx context.Context, lang core.Language, batch []vocabWord, tracker *ProgressTracker) error {
	texts := make([]string, len(batch))
	for i, w := range batch {
		texts[i] = w.surface
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = v.embedder.EmbedTexts(ctx, texts)
		return err
	}, v.config.MaxRetries, v.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", v.config.MaxRetries, err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(vectors))
	}

	records := make([]*core.WordVector, len(batch))
	for i, w := range batch {
		records[i] = core.NewWordVector(lang, w.key, embedding.NormalizeVector(vectors[i]))
	}

	err = RetryWithBackoff(ctx, func() error {
		return v.repo.PutVectors(ctx, records...)
	}, v.config.MaxRetries, v.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to store batch after %d attempts: %w", v.config.MaxRetries, err)
	}

	tracker.Increment(len(records))
	return nil
}
